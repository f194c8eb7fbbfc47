// Package publisher provides the non-blocking audit emitter used by services.
// Events are buffered on a channel drained by the worker; a full buffer drops
// the event with a warning rather than stalling a checkout decision.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"spendgate/pkg/platform/audit"
)

// Emitter buffers audit events for background processing.
type Emitter struct {
	inbox  chan audit.Event
	logger *slog.Logger
}

type Option func(*Emitter)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// New creates an emitter with the given buffer size.
func New(bufferSize int, opts ...Option) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	e := &Emitter{
		inbox: make(chan audit.Event, bufferSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inbox exposes the receive side for the worker.
func (e *Emitter) Inbox() <-chan audit.Event {
	return e.inbox
}

// Emit enqueues an event, stamping a timestamp if the caller left it zero.
// Never blocks: audit is advisory for the caller, the decision has already
// been made.
func (e *Emitter) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case e.inbox <- event:
		return nil
	default:
		if e.logger != nil {
			e.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"org_id", event.OrgID,
			)
		}
		return nil
	}
}
