// Package service computes on-demand budget forecasts and records the spend
// events that feed them.
package service

import (
	"context"
	"log/slog"
	"strconv"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/ports"
	"spendgate/internal/forecast"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/audit"
	"spendgate/pkg/requestcontext"
)

// UsageStore accumulates per-period spend counters.
type UsageStore interface {
	// Add increments the counter for an org and period, returning the new total.
	Add(ctx context.Context, orgID id.OrgID, period string, amount int64) (int64, error)

	// Total returns the accumulated spend for an org and period.
	Total(ctx context.Context, orgID id.OrgID, period string) (int64, error)
}

// Forecast is the full advisory picture for one organization's current
// period.
type Forecast struct {
	Period      string
	Usage       int64
	ElapsedDays int
	PeriodDays  int
	Cap         int64
	Projection  forecast.Projection
	SnapshotID  string
}

// Service reads usage counters and the active ruleset cap to produce
// forecasts.
type Service struct {
	usage    UsageStore
	rulesets ports.RulesetStore
	auditor  ports.AuditPublisher
	logger   *slog.Logger
}

// Option configures a Service instance.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditPublisher sets the audit event publisher.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// New creates a forecast service.
func New(usage UsageStore, rulesets ports.RulesetStore, opts ...Option) (*Service, error) {
	if usage == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "usage store is required")
	}
	if rulesets == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ruleset store is required")
	}

	s := &Service{usage: usage, rulesets: rulesets}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Forecast projects the current period's spend for an organization. The cap
// comes from the active ruleset; an org without one uses the defaults.
func (s *Service) Forecast(ctx context.Context, orgID id.OrgID) (Forecast, error) {
	now := requestcontext.Now(ctx)
	period := forecast.PeriodKey(now)

	rs, err := s.rulesets.Get(ctx, orgID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		rs = config.DefaultRuleset()
	} else if err != nil {
		return Forecast{}, err
	}

	total, err := s.usage.Total(ctx, orgID, period)
	if err != nil {
		return Forecast{}, err
	}

	elapsed := now.Day()
	periodDays := forecast.PeriodLength(now)

	return Forecast{
		Period:      period,
		Usage:       total,
		ElapsedDays: elapsed,
		PeriodDays:  periodDays,
		Cap:         rs.MonthlyCap,
		Projection:  forecast.Project(total, elapsed, periodDays, rs.MonthlyCap),
		SnapshotID:  rs.SnapshotID,
	}, nil
}

// RecordSpend adds a settled spend amount to the current period's counter
// and returns the new total.
func (s *Service) RecordSpend(ctx context.Context, orgID id.OrgID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}

	now := requestcontext.Now(ctx)
	period := forecast.PeriodKey(now)

	total, err := s.usage.Add(ctx, orgID, period, amount)
	if err != nil {
		return 0, err
	}

	ports.LogAudit(ctx, s.logger, s.auditor, audit.Event{
		OrgID:  orgID,
		Action: audit.ActionSpendRecorded,
		Detail: "amount " + strconv.FormatInt(amount, 10) + " period " + period,
	},
		"org_id", orgID.String(),
		"amount", amount,
		"period", period,
		"total", total,
	)
	return total, nil
}
