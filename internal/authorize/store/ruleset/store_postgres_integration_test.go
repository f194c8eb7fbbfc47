//go:build integration

package ruleset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendgate/internal/authorize/config"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/testutil/containers"
)

const rulesetSchema = `
CREATE TABLE spend_rulesets (
    org_id      UUID PRIMARY KEY,
    snapshot_id TEXT NOT NULL,
    ruleset     JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`

func TestPostgresStore_Integration(t *testing.T) {
	pg := containers.NewPostgresContainer(t, rulesetSchema)
	store := NewPostgres(pg.DB)
	ctx := context.Background()

	orgID, err := id.ParseOrgID("7b9a3a1e-9b4e-4f54-a3ad-6a9d2f1c8e11")
	require.NoError(t, err)

	t.Run("missing ruleset returns not found", func(t *testing.T) {
		_, err := store.Get(ctx, orgID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("put then get roundtrips", func(t *testing.T) {
		rs := config.DefaultRuleset()
		rs.SnapshotID = "pg-v1"
		require.NoError(t, store.Put(ctx, orgID, rs))

		got, err := store.Get(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, "pg-v1", got.SnapshotID)
		assert.Equal(t, rs.ApprovedRegions, got.ApprovedRegions)
		assert.Equal(t, rs.PerTransactionLimit, got.PerTransactionLimit)
	})

	t.Run("put replaces the active snapshot", func(t *testing.T) {
		rs := config.DefaultRuleset()
		rs.SnapshotID = "pg-v2"
		rs.MonthlyCap = 9_000_000
		require.NoError(t, store.Put(ctx, orgID, rs))

		got, err := store.Get(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, "pg-v2", got.SnapshotID)
		assert.Equal(t, int64(9_000_000), got.MonthlyCap)
	})
}
