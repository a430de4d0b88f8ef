package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/warden/internal/domain"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// WithClaims injects verified session claims into the context.
func WithClaims(ctx context.Context, claims domain.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the session claims and whether they were set.
func ClaimsFromContext(ctx context.Context) (domain.SessionClaims, bool) {
	c, ok := ctx.Value(claimsContextKey).(domain.SessionClaims)
	return c, ok
}
