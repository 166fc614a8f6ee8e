package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName is the cookie holding the double-submit token. It is
	// also the form field name used by the crew and delete forms.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header the page scripts and the API client
	// send, copied from the csrf-token meta tag.
	DefaultCSRFHeaderName = "X-CSRFToken"

	csrfTokenBytes    = 32
	defaultCSRFMaxAge = 12 * time.Hour
)

var (
	errCSRFNoCookie = errors.New("csrf cookie missing")
	errCSRFNoToken  = errors.New("csrf token not submitted")
	errCSRFMismatch = errors.New("csrf token mismatch")
)

// CSRFConfig configures the double-submit check. Zero values use the defaults
// above.
type CSRFConfig struct {
	CookieName   string
	HeaderName   string
	FormField    string
	CookieDomain string
	MaxAge       time.Duration
	Logger       *slog.Logger
}

type csrfGuard struct {
	cfg CSRFConfig
}

// CSRFProtection issues a token cookie to every caller and rejects mutating
// requests whose header (or form field, for form posts) does not echo it. The
// token is placed in the request context for the page's csrf-token meta tag.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormField == "" {
		cfg.FormField = DefaultCSRFCookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultCSRFMaxAge
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	g := csrfGuard{cfg: cfg}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieToken := g.cookieToken(r)
			token := cookieToken
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					g.cfg.Logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				g.issue(w, r, token)
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if mutating(r.Method) {
				if err := g.verify(r, cookieToken); err != nil {
					g.cfg.Logger.WarnContext(r.Context(), "csrf check failed",
						"method", r.Method,
						"path", r.URL.Path,
						"reason", err.Error(),
					)
					WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf_failed", Err: err})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func (g csrfGuard) cookieToken(r *http.Request) string {
	c, err := r.Cookie(g.cfg.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// issue sets the token cookie. Page scripts read it, so it is not HttpOnly.
func (g csrfGuard) issue(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   g.cfg.CookieDomain,
		HttpOnly: false,
		Secure:   overHTTPS(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(g.cfg.MaxAge / time.Second),
	})
}

// verify compares the submitted token against the cookie that came with the
// request. A freshly issued token never validates a mutation.
func (g csrfGuard) verify(r *http.Request, cookieToken string) error {
	if cookieToken == "" {
		return errCSRFNoCookie
	}
	submitted := r.Header.Get(g.cfg.HeaderName)
	if submitted == "" && isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("parse form: %w", err)
		}
		submitted = r.PostForm.Get(g.cfg.FormField)
	}
	if submitted == "" {
		return errCSRFNoToken
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) != 1 {
		return errCSRFMismatch
	}
	return nil
}

func isFormPost(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// overHTTPS reports whether the request reached us, or the fronting proxy,
// over TLS.
func overHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// newCSRFToken fails closed when the system random source does.
func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token the board page renders into its csrf-token
// meta tag.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
