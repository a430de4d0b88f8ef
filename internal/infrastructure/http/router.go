package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	HealthHandler  *handlers.HealthHandler
	RequireSession *middleware.RequireSession
	Log            zerolog.Logger
	Secure         func(http.Handler) http.Handler
	CORSOrigins    []string
	LoginRateLimit func(http.Handler) http.Handler
	APIVersion     string // path segment and X-API-Version header, e.g. "v1"
	Metrics        bool   // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(middleware.Recoverer(cfg.Log))
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", handlers.NewHealthHandler(nil, nil).ServeHTTP)
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}
	r.Route("/api/"+version, func(r chi.Router) {
		r.Use(middleware.APIVersion(version))
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.LoginRateLimit != nil {
					r.Use(cfg.LoginRateLimit)
				}
				r.Use(middleware.RequireJSON)
				r.Post("/login", cfg.AuthHandler.Login)
			})
			if cfg.RequireSession != nil {
				r.Group(func(r chi.Router) {
					r.Use(cfg.RequireSession.Handler)
					r.Get("/me", cfg.AuthHandler.Me)
				})
			}
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
