package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSOptions returns the cross-origin policy for browser clients. With no
// origins configured, cross-origin requests are not allowed.
func CORSOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"X-API-Version", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// CORS returns the go-chi/cors handler for the given origins.
func CORS(origins []string) func(next http.Handler) http.Handler {
	return cors.Handler(CORSOptions(origins))
}
