package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/target/crewboard/internal/observability/metrics"
	"github.com/target/crewboard/internal/observability/statsd"
)

type routeKey struct{}

// routeHolder carries the matched pattern out of the inner mux, which sees a
// copy of the request once identity has been attached.
type routeHolder struct{ pattern string }

// Metrics returns a middleware that emits request count and latency per
// matched route. A nil sink disables it.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			holder := &routeHolder{}
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, holder))
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := holder.pattern
			if route == "" {
				route = r.Pattern
			}
			metrics.EmitRequest(sink, metrics.RequestMetric{
				Route:    route,
				Method:   r.Method,
				Status:   ww.status,
				Duration: time.Since(start),
			})
		})
	}
}

// recordRoute wraps a ServeMux and reports its matched pattern to Metrics.
func recordRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if h, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
			h.pattern = r.Pattern
		}
	})
}
