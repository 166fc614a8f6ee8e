package httpx

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return CSRFProtection(CSRFConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_GetIssuesTokenCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := csrfCookie(t, rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, cookie.Value, rec.Body.String(), "token exposed to the page must match the cookie")
	assert.False(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, int((12 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestCSRFProtection_ExistingCookieReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(t, rec))
	assert.Equal(t, "existing", rec.Body.String())
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		rec := httptest.NewRecorder()
		csrfTestHandler().ServeHTTP(rec, httptest.NewRequest(method, "/api/posts", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "no token", cookie: "tok", want: http.StatusForbidden},
		{name: "no cookie", header: "tok", want: http.StatusForbidden},
		{name: "mismatch", header: "other", cookie: "tok", want: http.StatusForbidden},
		{name: "match", header: "tok", cookie: "tok", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/save_theme", strings.NewReader(`{"theme":"dark"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			csrfTestHandler().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRFProtection_HeaderNameCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/save_view_mode", nil)
	req.Header["X-Csrftoken"] = []string{"tok"}
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFProtection_FormField(t *testing.T) {
	form := url.Values{DefaultCSRFCookieName: {"tok"}}
	req := httptest.NewRequest(http.MethodPost, "/crew", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Form fields are ignored for non-form content types.
	req = httptest.NewRequest(http.MethodPost, "/crew", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "text/plain")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec = httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	t.Run("tls", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.TLS = &tls.ConnectionState{}
		rec := httptest.NewRecorder()
		csrfTestHandler().ServeHTTP(rec, req)
		cookie := csrfCookie(t, rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.Secure)
	})

	t.Run("forwarded proto", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
		rec := httptest.NewRecorder()
		csrfTestHandler().ServeHTTP(rec, req)
		cookie := csrfCookie(t, rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.Secure)
	})
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCSRFProtection_RejectionReasons(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		reason string
	}{
		{name: "fresh visitor", header: "tok", reason: errCSRFNoCookie.Error()},
		{name: "nothing submitted", cookie: "tok", reason: errCSRFNoToken.Error()},
		{name: "wrong token", cookie: "tok", header: "nope", reason: errCSRFMismatch.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/set_event_status/3/active", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()

			csrfTestHandler().ServeHTTP(rec, req)

			require.Equal(t, http.StatusForbidden, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "csrf_failed", body["error"])
			assert.Equal(t, tt.reason, body["message"])
		})
	}
}

func TestCSRFProtection_CustomMaxAge(t *testing.T) {
	h := CSRFProtection(CSRFConfig{MaxAge: time.Hour})(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := csrfCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, 3600, cookie.MaxAge)
}
