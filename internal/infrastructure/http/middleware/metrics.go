package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_login_attempts_total",
			Help: "Login attempts by outcome (success or error kind)",
		},
		[]string{"outcome"},
	)
	sessionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_session_rejections_total",
			Help: "Protected requests rejected by the session guard, by kind",
		},
		[]string{"kind"},
	)
)

// PrometheusMiddleware records request duration labelled by route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

// RecordLoginAttempt counts a login outcome ("success" or an error kind).
func RecordLoginAttempt(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordSessionRejection counts a guard rejection by kind.
func RecordSessionRejection(kind string) {
	sessionRejections.WithLabelValues(kind).Inc()
}
