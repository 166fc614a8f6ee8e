package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			}
			if s, ok := SessionFrom(r.Context()); ok {
				attrs = append(attrs, slog.String("user_id", s.UserID))
			}
			logger.Info("http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver turns a forwarded identity into a browsing session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, in service.ResolveSessionInput) (domainauth.Session, error)
}

const sessionCookieMaxAge = 12 * 60 * 60

// IdentityConfig configures the Identity middleware.
type IdentityConfig struct {
	Resolver SessionResolver

	// UserHeader and GroupsHeader name the headers the upstream proxy sets.
	UserHeader     string
	GroupsHeader   string
	GroupSeparator string

	// DevIdentity is used when the proxy headers are absent (dev only).
	DevIdentity *domainauth.Identity

	SessionCookie string
	CookieDomain  string
	Logger        *slog.Logger
}

// Identity returns a middleware that resolves the caller's session from the
// upstream identity headers and the session cookie, issuing a new session
// cookie when needed. Requests without an identity get 401.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	if cfg.UserHeader == "" {
		cfg.UserHeader = "X-Forwarded-User"
	}
	if cfg.GroupsHeader == "" {
		cfg.GroupsHeader = "X-Forwarded-Groups"
	}
	if cfg.GroupSeparator == "" {
		cfg.GroupSeparator = ","
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "crewboard_session"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromRequest(r, cfg)

			var cookieID string
			if c, err := r.Cookie(cfg.SessionCookie); err == nil {
				cookieID = c.Value
			}

			sess, err := cfg.Resolver.ResolveSession(r.Context(), service.ResolveSessionInput{
				Identity:  identity,
				SessionID: cookieID,
			})
			if err != nil {
				WriteAppError(w, r, logger, err)
				return
			}

			if sess.ID != cookieID {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: true,
					Secure:   r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   sessionCookieMaxAge,
				})
			}

			ctx := withSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromRequest(r *http.Request, cfg IdentityConfig) domainauth.Identity {
	user := strings.TrimSpace(r.Header.Get(cfg.UserHeader))
	if user == "" {
		if cfg.DevIdentity != nil {
			return *cfg.DevIdentity
		}
		return domainauth.Identity{}
	}

	var groups []string
	for _, g := range strings.Split(r.Header.Get(cfg.GroupsHeader), cfg.GroupSeparator) {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return domainauth.Identity{UserID: user, Groups: groups}
}

// sessionFromRequest returns the session set by Identity. Handlers are only
// mounted behind Identity, so a missing session is a wiring error.
func sessionFromRequest(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	s, ok := SessionFrom(r.Context())
	if !ok {
		http.Error(w, "session required", http.StatusUnauthorized)
	}
	return s, ok
}
