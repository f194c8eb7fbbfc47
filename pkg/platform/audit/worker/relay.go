package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendgate/pkg/platform/audit"
	"spendgate/pkg/platform/audit/store/postgres"
)

// Relay drains unpublished outbox rows to Kafka on an interval. It pairs with
// the postgres store: the worker appends rows, the relay publishes them and
// marks them, so an unreachable broker only delays delivery.
type Relay struct {
	store     *postgres.Store
	sink      Sink
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewRelay(store *postgres.Store, sink Sink, interval time.Duration, logger *slog.Logger) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Relay{
		store:     store,
		sink:      sink,
		interval:  interval,
		batchSize: 100,
		logger:    logger,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

func (r *Relay) drain(ctx context.Context) {
	rows, err := r.store.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "outbox fetch failed", "error", err)
		}
		return
	}

	published := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		var event audit.Event
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			if r.logger != nil {
				r.logger.ErrorContext(ctx, "outbox payload corrupt, skipping",
					"outbox_id", row.ID, "error", err)
			}
			// Mark corrupt rows published so they don't wedge the relay.
			published = append(published, row.ID)
			continue
		}
		if err := r.sink.Publish(ctx, event); err != nil {
			break
		}
		published = append(published, row.ID)
	}

	if err := r.store.MarkPublished(ctx, published); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "outbox mark published failed", "error", err)
	}
}
