package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/envelope"
)

// RequireSession runs the session guard on the Authorization header and
// sets the claims in context (see ClaimsFromContext).
type RequireSession struct {
	guard *auth.SessionGuard
	log   zerolog.Logger
}

func NewRequireSession(guard *auth.SessionGuard, log zerolog.Logger) *RequireSession {
	return &RequireSession{guard: guard, log: log}
}

func (m *RequireSession) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.guard.Authorize(r.Header.Get("Authorization"))
		if err != nil {
			e := domerrors.As(err)
			m.log.Debug().Err(e.Err).Str("kind", e.Kind.String()).Str("path", r.URL.Path).Msg("session rejected")
			RecordSessionRejection(e.Kind.String())
			envelope.Error(w, e)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
