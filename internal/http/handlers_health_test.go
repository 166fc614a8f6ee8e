package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	deps := newTestDeps()
	h := newTestRouter(t, deps)

	// No identity or CSRF needed.
	rec := serve(t, h, caller{noCSRF: true}, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_Checks(t *testing.T) {
	deps := newTestDeps()
	deps.checks = map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	}
	h := newTestRouter(t, deps)

	rec := serve(t, h, caller{noCSRF: true}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"dial tcp: refused"}}`, rec.Body.String())

	rec = serve(t, h, caller{noCSRF: true}, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
