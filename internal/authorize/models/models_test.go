package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "spendgate/pkg/domain-errors"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestParsePaymentMethod() {
	s.Run("accepts every supported method", func() {
		for _, raw := range []string{"corporate_pay", "personal_wallet", "card", "mobile_money"} {
			m, err := ParsePaymentMethod(raw)
			s.NoError(err)
			s.True(m.IsValid())
		}
	})

	s.Run("rejects unknown method", func() {
		_, err := ParsePaymentMethod("crypto")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ModelsSuite) TestParseTimeOfDay() {
	s.Run("parses HH:MM", func() {
		m, err := ParseTimeOfDay("09:30")
		s.NoError(err)
		s.Equal(MinuteOfDay(570), m)
		s.Equal("09:30", m.String())
	})

	s.Run("parses day bounds", func() {
		m, err := ParseTimeOfDay("00:00")
		s.NoError(err)
		s.Equal(MinuteOfDay(0), m)

		m, err = ParseTimeOfDay("23:59")
		s.NoError(err)
		s.Equal(MinuteOfDay(1439), m)
	})

	s.Run("rejects out of range and garbage", func() {
		for _, raw := range []string{"", "24:00", "12:60", "-1:30", "noon"} {
			_, err := ParseTimeOfDay(raw)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "expected rejection of %q", raw)
		}
	})
}

func (s *ModelsSuite) TestOutcomeSeverityOrdering() {
	s.True(OutcomeBlocked.WorseThan(OutcomeApprovalRequired))
	s.True(OutcomeBlocked.WorseThan(OutcomeAllowed))
	s.True(OutcomeApprovalRequired.WorseThan(OutcomeAllowed))
	s.False(OutcomeAllowed.WorseThan(OutcomeApprovalRequired))
	s.False(OutcomeBlocked.WorseThan(OutcomeBlocked))
}

func (s *ModelsSuite) TestGraceWindowActiveAt() {
	expiry := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	window := GraceWindow{Enabled: true, Expiry: expiry}

	s.True(window.ActiveAt(expiry.Add(-time.Minute)))
	// The expiry instant itself is already lapsed.
	s.False(window.ActiveAt(expiry))
	s.False(window.ActiveAt(expiry.Add(time.Minute)))
	s.False(GraceWindow{Enabled: false, Expiry: expiry}.ActiveAt(expiry.Add(-time.Minute)))
}

func (s *ModelsSuite) validRequest() (TransactionRequest, error) {
	return NewTransactionRequest(
		MethodCorporatePay, 50_000, "UGX", "Kampala",
		MinuteOfDay(570), CategoryStandard, ScheduleImmediate,
		"client dinner", "CC-14",
	)
}

func (s *ModelsSuite) TestNewTransactionRequest() {
	s.Run("valid request passes", func() {
		req, err := s.validRequest()
		s.Require().NoError(err)
		s.True(req.HasPurpose())
		s.True(req.HasCostCenter())
	})

	s.Run("negative amount rejected", func() {
		_, err := NewTransactionRequest(
			MethodCorporatePay, -1, "UGX", "Kampala",
			MinuteOfDay(570), CategoryStandard, ScheduleImmediate, "", "",
		)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("blank currency and region rejected", func() {
		_, err := NewTransactionRequest(
			MethodCorporatePay, 1, "  ", "Kampala",
			MinuteOfDay(570), CategoryStandard, ScheduleImmediate, "", "",
		)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewTransactionRequest(
			MethodCorporatePay, 1, "UGX", "",
			MinuteOfDay(570), CategoryStandard, ScheduleImmediate, "", "",
		)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("whitespace tags count as absent", func() {
		req, err := NewTransactionRequest(
			MethodCorporatePay, 1, "UGX", "Kampala",
			MinuteOfDay(570), CategoryStandard, ScheduleImmediate, "   ", "\t",
		)
		s.Require().NoError(err)
		s.False(req.HasPurpose())
		s.False(req.HasCostCenter())
	})
}

func (s *ModelsSuite) TestRequestPatch() {
	req, err := s.validRequest()
	s.Require().NoError(err)

	s.Run("apply overrides only patched fields", func() {
		patched := PatchAmount(10_000).ApplyTo(req)
		s.Equal(int64(10_000), patched.Amount)
		s.Equal(req.Region, patched.Region)
		s.Equal(req.Method, patched.Method)
		// The original is untouched.
		s.Equal(int64(50_000), req.Amount)
	})

	s.Run("zero patch changes nothing", func() {
		s.True(RequestPatch{}.IsZero())
		s.Equal(req, RequestPatch{}.ApplyTo(req))
		s.False(PatchRegion("Jinja").IsZero())
	})

	s.Run("key is deterministic per patched field set", func() {
		s.Equal(PatchAmount(5).Key(), PatchAmount(5).Key())
		s.NotEqual(PatchAmount(5).Key(), PatchAmount(6).Key())
		s.NotEqual(PatchMethod(MethodPersonalWallet).Key(), PatchCategory(CategoryStandard).Key())
		s.Empty(RequestPatch{}.Key())
	})
}
