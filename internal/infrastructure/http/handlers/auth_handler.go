package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/application/auth"
	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/envelope"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/middleware"
)

const eventLogin = "user.login"

type AuthHandler struct {
	authn    *auth.Authenticator
	enqueuer ports.TaskEnqueuer
	log      zerolog.Logger
}

func NewAuthHandler(authn *auth.Authenticator, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, enqueuer: enqueuer, log: log}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Token string                `json:"token"`
	User  domain.AccountSummary `json:"user"`
}

type meResponse struct {
	User      domain.AccountSummary `json:"user"`
	IssuedAt  time.Time             `json:"issuedAt"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		envelope.Error(w, domerrors.Validation("Invalid request body", nil))
		return
	}

	in := auth.LoginInput{
		Email:            SanitizeEmail(body.Email),
		Password:         body.Password,
		RememberMe:       body.RememberMe,
		SourceAddress:    clientIP(r),
		ClientDescriptor: ClientDescriptor(r.UserAgent()),
	}
	result, err := h.authn.Authenticate(r.Context(), in)
	if err != nil {
		h.loginFailed(w, r, in, domerrors.As(err))
		return
	}

	middleware.RecordLoginAttempt("success")
	AuditEmit(h.log, r, h.enqueuer, ports.AuditEvent{
		Event:            eventLogin,
		Email:            in.Email,
		AccountID:        int64(result.User.ID),
		SourceAddress:    in.SourceAddress,
		ClientDescriptor: in.ClientDescriptor,
		Success:          true,
	})
	envelope.Success(w, http.StatusOK, loginResponse{Token: result.Token, User: result.User})
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, in auth.LoginInput, e *domerrors.Error) {
	middleware.RecordLoginAttempt(e.Kind.String())
	switch e.Kind {
	case domerrors.KindValidation:
		// Rejected before any store access; nothing to audit.
	case domerrors.KindStoreUnavailable, domerrors.KindInternal:
		h.log.Error().
			Err(e.Err).
			Str("kind", e.Kind.String()).
			Str("email", in.Email).
			Str("ip", in.SourceAddress).
			Msg("login failed")
	default:
		AuditEmit(h.log, r, h.enqueuer, ports.AuditEvent{
			Event:            eventLogin,
			Email:            in.Email,
			SourceAddress:    in.SourceAddress,
			ClientDescriptor: in.ClientDescriptor,
			Success:          false,
			Err:              e.Kind.String(),
		})
	}
	envelope.Error(w, e)
}

// Me handles GET /auth/me behind RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		envelope.Error(w, domerrors.ErrMissingCredential)
		return
	}
	envelope.Success(w, http.StatusOK, meResponse{
		User:      domain.AccountSummary{ID: claims.AccountID, Name: claims.Name, Email: claims.Email},
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}

// NotFound answers unmatched routes with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	envelope.Message(w, http.StatusNotFound, "not_found", "Route not found: "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	envelope.Message(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed: "+r.Method+" "+r.URL.Path)
}
