package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

const (
	TypeAuditWebhook = "audit:webhook"

	// QueueAudit keeps audit deliveries off the default queue.
	QueueAudit = "audit"

	auditMaxRetry = 8
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

// NewAuditTask builds the delivery task for event. The event ID doubles as the
// task ID so a duplicate enqueue of the same event is rejected by asynq.
func NewAuditTask(event ports.AuditEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{
		asynq.Queue(QueueAudit),
		asynq.MaxRetry(auditMaxRetry),
		asynq.Timeout(30 * time.Second),
	}
	if event.ID != "" {
		opts = append(opts, asynq.TaskID(event.ID))
	}
	return asynq.NewTask(TypeAuditWebhook, payload, opts...), nil
}

func (q *TaskEnqueuer) EnqueueAuditEvent(ctx context.Context, event ports.AuditEvent) error {
	task, err := NewAuditTask(event)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event_id", event.ID).Msg("enqueue audit webhook failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
