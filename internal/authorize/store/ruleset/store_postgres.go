package ruleset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"spendgate/internal/authorize/config"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/sentinel"
	txcontext "spendgate/pkg/platform/tx"
)

// Schema:
//
//	CREATE TABLE spend_rulesets (
//	    org_id      UUID PRIMARY KEY,
//	    snapshot_id TEXT NOT NULL,
//	    ruleset     JSONB NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);

// PostgresStore persists rulesets as JSONB documents, one active snapshot
// per organization.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a postgres-backed ruleset store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Get retrieves the active ruleset for an organization.
func (s *PostgresStore) Get(ctx context.Context, orgID id.OrgID) (config.Ruleset, error) {
	var raw []byte
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT ruleset FROM spend_rulesets WHERE org_id = $1`,
		orgID.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return config.Ruleset{}, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "no ruleset for org "+orgID.String())
	}
	if err != nil {
		return config.Ruleset{}, dErrors.Wrap(err, dErrors.CodeInternal, "query ruleset")
	}

	var rs config.Ruleset
	if err := json.Unmarshal(raw, &rs); err != nil {
		return config.Ruleset{}, dErrors.Wrap(err, dErrors.CodeInternal, "decode stored ruleset")
	}
	return rs, nil
}

// Put replaces the active ruleset for an organization. The snapshot is
// validated and normalized before it is written.
func (s *PostgresStore) Put(ctx context.Context, orgID id.OrgID, rs config.Ruleset) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	rs = rs.Normalized()

	raw, err := json.Marshal(rs)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode ruleset")
	}

	_, err = s.querier(ctx).ExecContext(ctx,
		`INSERT INTO spend_rulesets (org_id, snapshot_id, ruleset, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (org_id) DO UPDATE
		 SET snapshot_id = EXCLUDED.snapshot_id,
		     ruleset     = EXCLUDED.ruleset,
		     updated_at  = EXCLUDED.updated_at`,
		orgID.String(), rs.SnapshotID, raw, time.Now().UTC(),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist ruleset")
	}
	return nil
}
