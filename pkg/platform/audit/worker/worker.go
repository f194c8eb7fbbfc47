// Package worker drains the audit emitter's inbox into durable storage and,
// when configured, onward to Kafka.
package worker

import (
	"context"
	"log/slog"

	"spendgate/pkg/platform/audit"
)

// Sink receives events after they are persisted. The Kafka publisher
// implements this; nil means store-only.
type Sink interface {
	Publish(ctx context.Context, event audit.Event) error
}

// Worker consumes audit events from a channel and persists them.
// Persistence failures are logged, not fatal: a lost audit event must never
// take the decision service down.
type Worker struct {
	store  audit.Store
	sink   Sink
	inbox  <-chan audit.Event
	logger *slog.Logger
}

type Option func(*Worker)

func WithSink(sink Sink) Option {
	return func(w *Worker) {
		w.sink = sink
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, opts ...Option) *Worker {
	w := &Worker{store: store, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.process(ctx, event)
		}
	}
}

func (w *Worker) process(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		if w.logger != nil {
			w.logger.ErrorContext(ctx, "audit append failed",
				"action", event.Action,
				"org_id", event.OrgID,
				"error", err,
			)
		}
		return
	}
	if w.sink == nil {
		return
	}
	// Sink errors are already logged by the publisher; the outbox row stays
	// unpublished and the relay retries later.
	_ = w.sink.Publish(ctx, event)
}
