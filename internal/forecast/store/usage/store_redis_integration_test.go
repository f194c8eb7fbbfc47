//go:build integration

package usage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "spendgate/pkg/domain"
	"spendgate/pkg/testutil/containers"
)

func TestRedisStore_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedis(rc.Client)
	ctx := context.Background()

	orgID, err := id.ParseOrgID("4d1f2a6b-8c3e-47d9-b721-55f0a9e6c402")
	require.NoError(t, err)

	t.Run("empty period totals zero", func(t *testing.T) {
		total, err := store.Total(ctx, orgID, "2026-04")
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("add accumulates atomically", func(t *testing.T) {
		total, err := store.Add(ctx, orgID, "2026-04", 100_000)
		require.NoError(t, err)
		assert.Equal(t, int64(100_000), total)

		total, err = store.Add(ctx, orgID, "2026-04", 85_000)
		require.NoError(t, err)
		assert.Equal(t, int64(185_000), total)

		total, err = store.Total(ctx, orgID, "2026-04")
		require.NoError(t, err)
		assert.Equal(t, int64(185_000), total)
	})

	t.Run("periods are isolated", func(t *testing.T) {
		total, err := store.Total(ctx, orgID, "2026-05")
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
