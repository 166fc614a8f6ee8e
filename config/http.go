package config

import (
	"strings"
	"time"
)

const (
	defaultSessionCookie   = "crewboard_session"
	defaultShutdownTimeout = 10 * time.Second
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for session and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SessionCookie names the cookie carrying the browsing session id that view
	// modes are keyed by.
	SessionCookie string `env:"HTTP_SESSION_COOKIE" envDefault:"crewboard_session"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if strings.TrimSpace(h.Addr) == "" {
		h.Addr = ":8080"
	}
	h.SessionCookie = strings.TrimSpace(h.SessionCookie)
	if h.SessionCookie == "" {
		h.SessionCookie = defaultSessionCookie
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = defaultShutdownTimeout
	}
}
