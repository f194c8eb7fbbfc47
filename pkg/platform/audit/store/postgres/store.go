// Package postgres implements the audit store with the transactional outbox
// pattern. Events are written to the outbox table and published to Kafka by
// the outbox relay; Kafka is the source of truth downstream.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "spendgate/pkg/domain"
	"spendgate/pkg/platform/audit"
	txcontext "spendgate/pkg/platform/tx"
)

// Schema:
//
//	CREATE TABLE audit_outbox (
//	    id            UUID PRIMARY KEY,
//	    org_id        UUID NOT NULL,
//	    action        TEXT NOT NULL,
//	    payload       JSONB NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    published_at  TIMESTAMPTZ
//	);
//	CREATE INDEX audit_outbox_org_idx ON audit_outbox (org_id, created_at DESC);
//	CREATE INDEX audit_outbox_unpublished_idx ON audit_outbox (created_at) WHERE published_at IS NULL;

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes an audit event to the outbox table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	_, err = s.execer(ctx).ExecContext(ctx,
		`INSERT INTO audit_outbox (id, org_id, action, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), event.OrgID.String(), event.Action, payload, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit outbox row: %w", err)
	}
	return nil
}

// ListByOrg returns the most recent events for an organization, newest first.
func (s *Store) ListByOrg(ctx context.Context, orgID id.OrgID, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM audit_outbox
		 WHERE org_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		orgID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit outbox: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit outbox row: %w", err)
		}
		var event audit.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("unmarshal audit event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// OutboxRow is an unpublished event awaiting relay to Kafka.
type OutboxRow struct {
	ID      uuid.UUID
	Payload []byte
}

// FetchUnpublished returns up to limit unpublished rows, oldest first, so the
// relay preserves emission order.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]OutboxRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM audit_outbox
		 WHERE published_at IS NULL
		 ORDER BY created_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query unpublished outbox rows: %w", err)
	}
	defer rows.Close()

	var result []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// MarkPublished stamps rows as relayed.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	stringIDs := make([]string, len(ids))
	for i, rowID := range ids {
		stringIDs[i] = rowID.String()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = NOW() WHERE id = ANY($1)`,
		pq.Array(stringIDs),
	)
	if err != nil {
		return fmt.Errorf("mark outbox rows published: %w", err)
	}
	return nil
}
