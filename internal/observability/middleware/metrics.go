package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"school/internal/observability/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// unmatchedRoute labels requests that never reached a registered route, so
// arbitrary paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// WithMetrics counts and times every request except scrapes of /metrics.
// The wrapped writer keeps http.Flusher and friends visible to handlers.
func WithMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		elapsed := time.Since(start).Seconds()

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, route).Observe(elapsed)

		slog.Default().DebugContext(r.Context(), "request served",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_seconds", elapsed,
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// routePattern is the chi route template, e.g. /v1/children/{childId}.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
