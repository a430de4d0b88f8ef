package queue

import (
	"context"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

// NoopEnqueuer is used when Redis is not configured; audit events then only
// reach the log.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueAuditEvent(ctx context.Context, event ports.AuditEvent) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
