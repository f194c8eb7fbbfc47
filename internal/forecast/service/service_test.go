package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"spendgate/internal/authorize/config"
	rulesetStore "spendgate/internal/authorize/store/ruleset"
	usageStore "spendgate/internal/forecast/store/usage"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
	"spendgate/pkg/platform/audit"
	"spendgate/pkg/requestcontext"
)

type capturingPublisher struct {
	events []audit.Event
}

func (c *capturingPublisher) Emit(_ context.Context, event audit.Event) error {
	c.events = append(c.events, event)
	return nil
}

type ForecastServiceSuite struct {
	suite.Suite
	usage    *usageStore.InMemoryStore
	rulesets *rulesetStore.InMemoryStore
	auditor  *capturingPublisher
	service  *Service
	orgID    id.OrgID
	ctx      context.Context
}

func TestForecastServiceSuite(t *testing.T) {
	suite.Run(t, new(ForecastServiceSuite))
}

func (s *ForecastServiceSuite) SetupTest() {
	s.usage = usageStore.NewInMemory()
	s.rulesets = rulesetStore.NewInMemory()
	s.auditor = &capturingPublisher{}

	var err error
	s.service, err = New(s.usage, s.rulesets, WithAuditPublisher(s.auditor))
	s.Require().NoError(err)

	s.orgID, err = id.ParseOrgID("4d1f2a6b-8c3e-47d9-b721-55f0a9e6c402")
	s.Require().NoError(err)

	// Day 8 of a 30-day month.
	now := time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), now)
}

func (s *ForecastServiceSuite) TestForecastWithRecordedSpend() {
	_, err := s.service.RecordSpend(s.ctx, s.orgID, 185_000)
	s.Require().NoError(err)

	f, err := s.service.Forecast(s.ctx, s.orgID)
	s.Require().NoError(err)

	s.Equal("2026-04", f.Period)
	s.Equal(int64(185_000), f.Usage)
	s.Equal(8, f.ElapsedDays)
	s.Equal(30, f.PeriodDays)
	s.Equal(int64(5_000_000), f.Cap)
	s.Equal(int64(693_750), f.Projection.ProjectedPeriodEndTotal)
	s.Equal(int64(209), f.Projection.DaysUntilCap)
	s.False(f.Projection.Unbounded)
}

func (s *ForecastServiceSuite) TestForecastEmptyPeriod() {
	f, err := s.service.Forecast(s.ctx, s.orgID)
	s.Require().NoError(err)

	s.Equal(int64(0), f.Usage)
	s.True(f.Projection.Unbounded)
}

func (s *ForecastServiceSuite) TestForecastUsesStoredCap() {
	rs := config.DefaultRuleset()
	rs.SnapshotID = "org-v3"
	rs.MonthlyCap = 400_000
	s.Require().NoError(s.rulesets.Put(s.ctx, s.orgID, rs))

	_, err := s.service.RecordSpend(s.ctx, s.orgID, 185_000)
	s.Require().NoError(err)

	f, err := s.service.Forecast(s.ctx, s.orgID)
	s.Require().NoError(err)

	s.Equal(int64(400_000), f.Cap)
	s.Equal("org-v3", f.SnapshotID)
	// (400000-185000)/23125 = 9.297..., so day 10 at the current rate.
	s.Equal(int64(10), f.Projection.DaysUntilCap)
}

func (s *ForecastServiceSuite) TestRecordSpend() {
	s.Run("accumulates across events", func() {
		total, err := s.service.RecordSpend(s.ctx, s.orgID, 100_000)
		s.Require().NoError(err)
		s.Equal(int64(100_000), total)

		total, err = s.service.RecordSpend(s.ctx, s.orgID, 85_000)
		s.Require().NoError(err)
		s.Equal(int64(185_000), total)
	})

	s.Run("emits audit events", func() {
		s.NotEmpty(s.auditor.events)
		s.Equal(audit.ActionSpendRecorded, s.auditor.events[0].Action)
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.service.RecordSpend(s.ctx, s.orgID, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.RecordSpend(s.ctx, s.orgID, -50)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
