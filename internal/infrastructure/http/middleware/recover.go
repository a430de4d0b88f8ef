package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/envelope"
)

// Recoverer turns panics into a generic 500 envelope and logs the stack.
func Recoverer(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Str("request_id", chimid.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				envelope.Error(w, domerrors.ErrInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
