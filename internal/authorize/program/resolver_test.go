package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"spendgate/internal/authorize/models"
)

// =============================================================================
// Program Status Resolver Test Suite
// =============================================================================

type ResolverSuite struct {
	suite.Suite
	now time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func (s *ResolverSuite) TestEligible() {
	res := Resolve(models.ProgramEligible, models.GraceWindow{}, s.now)

	s.Equal(models.AvailabilityAvailable, res.Availability)
	s.Nil(res.Reason)
	s.False(res.GraceActive)
}

func (s *ResolverSuite) TestHardStatuses() {
	for _, status := range []models.ProgramStatus{
		models.ProgramNotLinked,
		models.ProgramNotEligible,
		models.ProgramDepositDepleted,
		models.ProgramCreditLimitExceeded,
	} {
		s.Run(string(status), func() {
			res := Resolve(status, models.GraceWindow{}, s.now)

			s.Equal(models.AvailabilityUnavailable, res.Availability)
			s.Require().NotNil(res.Reason)
			s.Equal(models.ReasonProgramUnavailable, res.Reason.Code)
			s.Equal(models.SeverityCritical, res.Reason.Severity)
		})
	}
}

func (s *ResolverSuite) TestBillingDelinquent() {
	s.Run("active grace softens to requires-approval", func() {
		grace := models.GraceWindow{Enabled: true, Expiry: s.now.Add(time.Hour)}
		res := Resolve(models.ProgramBillingDelinquent, grace, s.now)

		s.Equal(models.AvailabilityRequiresApproval, res.Availability)
		s.True(res.GraceActive)
		s.Require().NotNil(res.Reason)
		s.Equal(models.ReasonBillingGrace, res.Reason.Code)
		s.Equal(models.SeverityWarning, res.Reason.Severity)
	})

	s.Run("expiry instant itself is no longer in grace", func() {
		grace := models.GraceWindow{Enabled: true, Expiry: s.now}
		res := Resolve(models.ProgramBillingDelinquent, grace, s.now)

		s.Equal(models.AvailabilityUnavailable, res.Availability)
		s.False(res.GraceActive)
	})

	s.Run("disabled grace is ignored regardless of expiry", func() {
		grace := models.GraceWindow{Enabled: false, Expiry: s.now.Add(time.Hour)}
		res := Resolve(models.ProgramBillingDelinquent, grace, s.now)

		s.Equal(models.AvailabilityUnavailable, res.Availability)
		s.Require().NotNil(res.Reason)
		s.Equal(models.ReasonProgramUnavailable, res.Reason.Code)
	})
}

func (s *ResolverSuite) TestUnknownStatusFailsClosed() {
	res := Resolve(models.ProgramStatus("mystery"), models.GraceWindow{}, s.now)

	s.Equal(models.AvailabilityUnavailable, res.Availability)
	s.Require().NotNil(res.Reason)
	s.Equal(models.SeverityCritical, res.Reason.Severity)
}
