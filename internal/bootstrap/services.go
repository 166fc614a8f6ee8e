package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/crewboard/config"
	"github.com/target/crewboard/internal/adapters/authroles"
	redisadapter "github.com/target/crewboard/internal/adapters/redis"
	"github.com/target/crewboard/internal/data"
	"github.com/target/crewboard/internal/observability/statsd"
	"github.com/target/crewboard/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Preferences *service.PreferenceService
	Events      *service.EventService
	Help        *service.HelpService
	Posts       *service.PostService

	// Cache backs the posts cache and the redis health check.
	Cache *data.RedisCacheRepo
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	// Metrics is optional.
	Metrics *statsd.Client
	Logger  *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Themes    *data.UserPreferenceRepo
	ViewModes *redisadapter.ViewModeStore
	Events    *data.EventRepo
	Tickets   *data.TicketRepo
	Posts     *data.PostRepo
	Cache     *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, client redis.UniversalClient, cfg config.CacheConfig) *serviceRepositories {
	return &serviceRepositories{
		Themes: data.NewUserPreferenceRepo(db),
		ViewModes: redisadapter.NewViewModeStoreWithOptions(client, redisadapter.ViewModeStoreOptions{
			Prefix: cfg.ViewModePrefix,
			TTL:    cfg.ViewModeTTL,
		}),
		Events:  data.NewEventRepo(db),
		Tickets: data.NewTicketRepo(db),
		Posts:   data.NewPostRepo(db),
		Cache:   data.NewRedisCacheRepo(client, cfg.Prefix),
	}
}

// BuildAuthService creates the auth service with the configured role groups.
func BuildAuthService(cfg config.AuthConfig, logger *slog.Logger) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Roles: authroles.StaticRoleMapper{
			AdminGroup:   cfg.AdminGroup,
			ManagerGroup: cfg.ManagerGroup,
		},
		Logger: logger,
	})
}

// NewServices wires repositories into services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
		cfg.Sanitize()
	}

	repos := buildRepositories(deps.DB, deps.RedisClient, cfg.Cache)

	return ServiceContainer{
		Auth: BuildAuthService(cfg.Auth, logger),
		Preferences: service.NewPreferenceService(service.PreferenceServiceOptions{
			Themes:    repos.Themes,
			ViewModes: repos.ViewModes,
			Metrics:   sinkOrNil(deps.Metrics),
			Logger:    logger,
		}),
		Events: service.NewEventService(service.EventServiceOptions{Events: repos.Events}),
		Help:   service.NewHelpService(service.HelpServiceOptions{Tickets: repos.Tickets}),
		Posts: service.NewPostService(service.PostServiceOptions{
			Posts:    repos.Posts,
			Cache:    repos.Cache,
			CacheTTL: cfg.Cache.PostsTTL,
			Logger:   logger,
		}),
		Cache: repos.Cache,
	}
}
