package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	t.Run("partial period projection", func(t *testing.T) {
		p := Project(185_000, 8, 30, 5_000_000)

		assert.True(t, decimal.NewFromInt(23_125).Equal(p.AverageDailyRate),
			"average daily rate, got %s", p.AverageDailyRate)
		assert.Equal(t, int64(693_750), p.ProjectedPeriodEndTotal)
		assert.False(t, p.Unbounded)
		assert.Equal(t, int64(209), p.DaysUntilCap)
	})

	t.Run("zero elapsed days treated as one", func(t *testing.T) {
		p := Project(10_000, 0, 30, 1_000_000)

		assert.True(t, decimal.NewFromInt(10_000).Equal(p.AverageDailyRate))
		assert.Equal(t, int64(300_000), p.ProjectedPeriodEndTotal)
	})

	t.Run("zero usage is unbounded", func(t *testing.T) {
		p := Project(0, 10, 30, 1_000_000)

		assert.True(t, p.Unbounded)
		assert.Equal(t, int64(0), p.ProjectedPeriodEndTotal)
	})

	t.Run("no cap configured is unbounded", func(t *testing.T) {
		p := Project(50_000, 5, 30, 0)

		assert.True(t, p.Unbounded)
		assert.Equal(t, int64(300_000), p.ProjectedPeriodEndTotal)
	})

	t.Run("usage already over cap reaches in zero days", func(t *testing.T) {
		p := Project(1_200_000, 10, 30, 1_000_000)

		assert.False(t, p.Unbounded)
		assert.Equal(t, int64(0), p.DaysUntilCap)
	})

	t.Run("fractional rate rounds projection", func(t *testing.T) {
		p := Project(100, 3, 30, 0)

		// 100/3 * 30 = 1000 exactly even though the rate is fractional.
		assert.Equal(t, int64(1000), p.ProjectedPeriodEndTotal)
	})
}

func TestPeriodHelpers(t *testing.T) {
	march := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03", PeriodKey(march))
	assert.Equal(t, 31, PeriodLength(march))

	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, PeriodLength(feb))

	april := time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, PeriodLength(april))
}
