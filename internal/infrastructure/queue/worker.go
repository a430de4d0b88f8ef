package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/warden/internal/application/ports"
)

// AuditDelivery posts queued audit events through a WebhookEmitter.
type AuditDelivery struct {
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

func NewAuditDelivery(emitter ports.WebhookEmitter, log zerolog.Logger) *AuditDelivery {
	return &AuditDelivery{emitter: emitter, log: log}
}

// ProcessTask implements asynq.Handler. Undecodable payloads are not retried.
func (d *AuditDelivery) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var event ports.AuditEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		d.log.Error().Err(err).Msg("audit task payload invalid")
		return fmt.Errorf("decode audit event: %v: %w", err, asynq.SkipRetry)
	}
	if err := d.emitter.Emit(ctx, event); err != nil {
		d.log.Warn().Err(err).Str("event_id", event.ID).Msg("audit webhook delivery failed")
		return err
	}
	d.log.Debug().Str("event_id", event.ID).Msg("audit webhook delivered")
	return nil
}

// Worker runs the asynq server that drains the audit queue.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewWorker creates an Asynq server and registers handlers. Call Start or Run.
func NewWorker(redisOpt asynq.RedisConnOpt, delivery *AuditDelivery, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueAudit: 1},
		LogLevel:    asynq.WarnLevel,
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeAuditWebhook, delivery)
	return &Worker{srv: srv, mux: mux}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

// Run blocks until a signal is received.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
