// Package forecast projects period-end spend from partial-period usage.
// The projection is advisory context surfaced alongside authorization
// decisions, never an input to them.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection is a derived, on-demand spend forecast. Nothing here is
// persisted.
type Projection struct {
	// AverageDailyRate is usage divided by elapsed days.
	AverageDailyRate decimal.Decimal

	// ProjectedPeriodEndTotal extrapolates the daily rate across the whole
	// period, rounded to the nearest minor unit.
	ProjectedPeriodEndTotal int64

	// DaysUntilCap is the number of days, at the current rate, before the
	// period cap is reached. Valid only when Unbounded is false.
	DaysUntilCap int64

	// Unbounded is set when the cap can never be reached at the current
	// rate (zero spend or no cap configured). An explicit flag rather than
	// a numeric infinity so display code cannot silently propagate it.
	Unbounded bool
}

// Project computes the forecast. Elapsed days at or below zero are treated
// as one full day to guard the rate division.
func Project(usage int64, elapsedDays, periodDays int, cap int64) Projection {
	if elapsedDays < 1 {
		elapsedDays = 1
	}

	avg := decimal.NewFromInt(usage).Div(decimal.NewFromInt(int64(elapsedDays)))
	projected := avg.Mul(decimal.NewFromInt(int64(periodDays))).Round(0).IntPart()

	p := Projection{
		AverageDailyRate:        avg,
		ProjectedPeriodEndTotal: projected,
		Unbounded:               true,
	}

	if cap <= 0 || !avg.IsPositive() {
		return p
	}

	remaining := decimal.NewFromInt(cap - usage)
	p.Unbounded = false
	if remaining.Sign() <= 0 {
		// Already at or over the cap.
		p.DaysUntilCap = 0
		return p
	}
	p.DaysUntilCap = remaining.Div(avg).Ceil().IntPart()
	return p
}

// PeriodKey identifies the calendar month a spend event belongs to, e.g.
// "2026-03". Usage counters are bucketed by this key.
func PeriodKey(t time.Time) string {
	return t.Format("2006-01")
}

// PeriodLength returns the number of days in t's calendar month.
func PeriodLength(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
