package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/crewboard/config"
	httpx "github.com/target/crewboard/internal/http"
	"github.com/target/crewboard/internal/observability/statsd"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Metrics  *statsd.Client
	Logger   *slog.Logger
}

// BuildHTTPHandler builds the router wrapped in the metrics, logging and recovery middleware.
func BuildHTTPHandler(cfg HTTPServerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	router, err := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Preferences:  cfg.Services.Preferences,
		Events:       cfg.Services.Events,
		Help:         cfg.Services.Help,
		Posts:        cfg.Services.Posts,
		Identity:     BuildIdentityConfig(appCfg),
		CSRF:         httpx.CSRFConfig{CookieDomain: appCfg.HTTP.CookieDomain},
		HealthChecks: buildHealthChecks(cfg.DB, cfg.Services),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	// Order: Recover -> Logging -> Metrics -> Router
	h := httpx.Metrics(sinkOrNil(cfg.Metrics))(router)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h, nil
}

// BuildIdentityConfig maps auth and HTTP configuration onto the identity middleware.
func BuildIdentityConfig(cfg *config.AppConfig) httpx.IdentityConfig {
	ic := httpx.IdentityConfig{
		UserHeader:     cfg.Auth.UserHeader,
		GroupsHeader:   cfg.Auth.GroupsHeader,
		GroupSeparator: cfg.Auth.GroupSeparator,
		SessionCookie:  cfg.HTTP.SessionCookie,
		CookieDomain:   cfg.HTTP.CookieDomain,
	}
	if id, ok := cfg.Auth.DevIdentity(); ok {
		ic.DevIdentity = &id
	}
	return ic
}

func buildHealthChecks(db *sql.DB, services ServiceContainer) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if services.Cache != nil {
		checks["redis"] = services.Cache.Health
	}
	return checks
}

func newServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// shutdownServer gracefully shuts down the HTTP server.
func shutdownServer(server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	logger.Info("shutting down HTTP server")

	// The parent context is already canceled at this point.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
