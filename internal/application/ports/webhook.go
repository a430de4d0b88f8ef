package ports

import (
	"context"
	"time"
)

// AuditEvent is a single login attempt as delivered to external sinks.
type AuditEvent struct {
	ID               string    `json:"id"`
	Event            string    `json:"event"`
	Email            string    `json:"email"`
	AccountID        int64     `json:"account_id,omitempty"`
	SourceAddress    string    `json:"source_address"`
	ClientDescriptor string    `json:"client_descriptor"`
	RequestID        string    `json:"request_id,omitempty"`
	Success          bool      `json:"success"`
	Err              string    `json:"error,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// WebhookEmitter sends audit events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
