package handlers

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

// AuditLog logs one login attempt with request context.
func AuditLog(log zerolog.Logger, event ports.AuditEvent) {
	ev := log.Info()
	if !event.Success {
		ev = log.Warn()
	}
	ev.
		Str("event", event.Event).
		Str("event_id", event.ID).
		Str("email", event.Email).
		Int64("account_id", event.AccountID).
		Str("ip", event.SourceAddress).
		Str("user_agent", event.ClientDescriptor).
		Str("request_id", event.RequestID).
		Bool("success", event.Success)
	if event.Err != "" {
		ev.Str("error", event.Err)
	}
	ev.Msg("auth_audit")
}

// AuditEmit logs the event and, if enqueuer is non-nil, queues it for webhook
// delivery. Enqueue failures are logged and never change the response.
func AuditEmit(log zerolog.Logger, r *http.Request, enqueuer ports.TaskEnqueuer, event ports.AuditEvent) {
	event.ID = uuid.NewString()
	event.RequestID = middleware.GetReqID(r.Context())
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	AuditLog(log, event)
	if enqueuer != nil {
		if err := enqueuer.EnqueueAuditEvent(r.Context(), event); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("enqueue audit event failed")
		}
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP middleware
// has already rewritten from X-Real-IP / X-Forwarded-For.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr == "" {
		return unknownClient
	}
	return r.RemoteAddr
}
