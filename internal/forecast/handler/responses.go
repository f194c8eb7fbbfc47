package handler

import (
	"github.com/shopspring/decimal"

	"spendgate/internal/forecast/service"
)

// ForecastResponse is the HTTP response for GET /orgs/{orgID}/forecast.
type ForecastResponse struct {
	Period           string          `json:"period"`
	Usage            int64           `json:"usage"`
	ElapsedDays      int             `json:"elapsed_days"`
	PeriodDays       int             `json:"period_days"`
	Cap              int64           `json:"cap"`
	PolicySnapshotID string          `json:"policy_snapshot_id"`
	AverageDailyRate decimal.Decimal `json:"average_daily_rate"`
	ProjectedTotal   int64           `json:"projected_period_end_total"`

	// DaysUntilCap is omitted entirely when the cap is unreachable at the
	// current rate.
	DaysUntilCap *int64 `json:"days_until_cap,omitempty"`
}

// RecordSpendResponse is the HTTP response for POST /orgs/{orgID}/spend.
type RecordSpendResponse struct {
	OrgID       string `json:"org_id"`
	PeriodTotal int64  `json:"period_total"`
}

// FromForecast converts a domain forecast to an HTTP response.
func FromForecast(f service.Forecast) *ForecastResponse {
	resp := &ForecastResponse{
		Period:           f.Period,
		Usage:            f.Usage,
		ElapsedDays:      f.ElapsedDays,
		PeriodDays:       f.PeriodDays,
		Cap:              f.Cap,
		PolicySnapshotID: f.SnapshotID,
		AverageDailyRate: f.Projection.AverageDailyRate,
		ProjectedTotal:   f.Projection.ProjectedPeriodEndTotal,
	}
	if !f.Projection.Unbounded {
		days := f.Projection.DaysUntilCap
		resp.DaysUntilCap = &days
	}
	return resp
}
