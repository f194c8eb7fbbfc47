// Package models defines the closed enumerations and value types of the
// spend-authorization domain. Outcomes are always derived by exhaustive
// matching over these enums, never by string comparison at call sites.
package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "spendgate/pkg/domain-errors"
)

// PaymentMethod selects how a checkout is funded. Policy applies only to
// CorporatePay; every other method is outside corporate policy entirely.
type PaymentMethod string

const (
	MethodCorporatePay   PaymentMethod = "corporate_pay"
	MethodPersonalWallet PaymentMethod = "personal_wallet"
	MethodCard           PaymentMethod = "card"
	MethodMobileMoney    PaymentMethod = "mobile_money"
)

// IsValid checks if the payment method is one of the supported enum values.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCorporatePay, MethodPersonalWallet, MethodCard, MethodMobileMoney:
		return true
	}
	return false
}

// ParsePaymentMethod creates a PaymentMethod from a string, validating it.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid payment method %q", s)
	}
	return m, nil
}

// Category classifies the transaction tier. Premium is the higher tier that
// triggers the approval threshold rule.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryPremium  Category = "premium"
)

// IsValid checks if the category is one of the supported enum values.
func (c Category) IsValid() bool {
	return c == CategoryStandard || c == CategoryPremium
}

// ParseCategory creates a Category from a string, validating it.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid category %q", s)
	}
	return c, nil
}

// ScheduleMode distinguishes immediate checkouts from scheduled ones.
type ScheduleMode string

const (
	ScheduleImmediate ScheduleMode = "immediate"
	ScheduleScheduled ScheduleMode = "scheduled"
)

// IsValid checks if the schedule mode is one of the supported enum values.
func (s ScheduleMode) IsValid() bool {
	return s == ScheduleImmediate || s == ScheduleScheduled
}

// ParseScheduleMode creates a ScheduleMode from a string, validating it.
func ParseScheduleMode(raw string) (ScheduleMode, error) {
	s := ScheduleMode(raw)
	if !s.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid schedule mode %q", raw)
	}
	return s, nil
}

// ProgramStatus is the organization's funding/compliance state, owned by the
// funding subsystem and supplied to the engine at evaluation time.
type ProgramStatus string

const (
	ProgramEligible            ProgramStatus = "eligible"
	ProgramNotLinked           ProgramStatus = "not_linked"
	ProgramNotEligible         ProgramStatus = "not_eligible"
	ProgramDepositDepleted     ProgramStatus = "deposit_depleted"
	ProgramCreditLimitExceeded ProgramStatus = "credit_limit_exceeded"
	ProgramBillingDelinquent   ProgramStatus = "billing_delinquent"
)

// IsValid checks if the program status is one of the supported enum values.
func (p ProgramStatus) IsValid() bool {
	switch p {
	case ProgramEligible, ProgramNotLinked, ProgramNotEligible,
		ProgramDepositDepleted, ProgramCreditLimitExceeded, ProgramBillingDelinquent:
		return true
	}
	return false
}

// ParseProgramStatus creates a ProgramStatus from a string, validating it.
func ParseProgramStatus(s string) (ProgramStatus, error) {
	p := ProgramStatus(s)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid program status %q", s)
	}
	return p, nil
}

// GraceWindow softens a delinquent billing status until it expires. Lapse is
// a pure function of the evaluation clock against Expiry, never an event.
type GraceWindow struct {
	Enabled bool      `json:"enabled"`
	Expiry  time.Time `json:"expiry"`
}

// ActiveAt reports whether the window softens a delinquency at the given time.
func (g GraceWindow) ActiveAt(now time.Time) bool {
	return g.Enabled && now.Before(g.Expiry)
}

// PaymentAvailability is the derived three-state availability of the
// corporate payment method. Produced fresh on every evaluation; never cached
// because the grace window is time-dependent.
type PaymentAvailability string

const (
	AvailabilityAvailable        PaymentAvailability = "available"
	AvailabilityRequiresApproval PaymentAvailability = "requires_approval"
	AvailabilityUnavailable      PaymentAvailability = "unavailable"
)

// IsValid checks if the availability is one of the supported enum values.
func (a PaymentAvailability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityRequiresApproval, AvailabilityUnavailable:
		return true
	}
	return false
}

// Outcome is the three-valued authorization result.
// Severity ordering: Blocked > ApprovalRequired > Allowed.
type Outcome string

const (
	OutcomeAllowed          Outcome = "allowed"
	OutcomeApprovalRequired Outcome = "approval_required"
	OutcomeBlocked          Outcome = "blocked"
)

// IsValid checks if the outcome is one of the supported enum values.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeAllowed, OutcomeApprovalRequired, OutcomeBlocked:
		return true
	}
	return false
}

// rank orders outcomes by severity for comparisons.
func (o Outcome) rank() int {
	switch o {
	case OutcomeBlocked:
		return 2
	case OutcomeApprovalRequired:
		return 1
	case OutcomeAllowed:
		return 0
	}
	return 0
}

// WorseThan reports whether o is a more severe outcome than other.
func (o Outcome) WorseThan(other Outcome) bool {
	return o.rank() > other.rank()
}

// Severity classifies a policy reason.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityCritical
}

// ReasonCode is the stable tag on a policy reason.
type ReasonCode string

const (
	ReasonMethodNotCorporate ReasonCode = "method_not_corporate"
	ReasonProgramUnavailable ReasonCode = "program_unavailable"
	ReasonBillingGrace       ReasonCode = "billing_grace"
	ReasonPurposeMissing     ReasonCode = "purpose_missing"
	ReasonCostCenterMissing  ReasonCode = "cost_center_missing"
	ReasonGeoRestricted      ReasonCode = "geo_restricted"
	ReasonOutsideHours       ReasonCode = "outside_hours"
	ReasonOverLimit          ReasonCode = "over_transaction_limit"
	ReasonApprovalThreshold  ReasonCode = "approval_threshold"
	ReasonWithinPolicy       ReasonCode = "within_policy"
)

// PolicyReason is a single rule-triggered explanation. Discovery order is
// preserved for display; the outcome depends only on the severities present.
type PolicyReason struct {
	Code     ReasonCode `json:"code"`
	Severity Severity   `json:"severity"`
	Title    string     `json:"title"`
	Detail   string     `json:"detail"`
}

// CoachTip is a proactive, non-blocking suggestion unrelated to a violation.
type CoachTip struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Patch       *RequestPatch `json:"patch,omitempty"`
}

// Alternative is a suggested request change paired with the outcome it is
// expected to produce if applied. Never auto-applied.
type Alternative struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ExpectedOutcome Outcome      `json:"expected_outcome"`
	Patch           RequestPatch `json:"patch"`
}

// Trigger is one labelled input the evaluator inspected, kept on the audit
// record so an outcome can be replayed and explained.
type Trigger struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AuditRecord is the replayable explanation attached to every decision.
type AuditRecord struct {
	CorrelationID    string    `json:"correlation_id"`
	PolicySnapshotID string    `json:"policy_snapshot_id"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
	Triggers         []Trigger `json:"triggers"`
}

// Decision is the complete result of one evaluation.
type Decision struct {
	Outcome      Outcome        `json:"outcome"`
	Reasons      []PolicyReason `json:"reasons"`
	Alternatives []Alternative  `json:"alternatives"`
	CoachTips    []CoachTip     `json:"coach_tips"`
	Audit        AuditRecord    `json:"audit"`
}

// TransactionRequest is one proposed corporate-funded transaction. Immutable;
// constructed fresh per checkout attempt.
type TransactionRequest struct {
	Method       PaymentMethod `json:"method"`
	Amount       int64         `json:"amount"` // minor units, non-negative
	Currency     string        `json:"currency"`
	Region       string        `json:"region"`
	TimeOfDay    MinuteOfDay   `json:"time_of_day"`
	Category     Category      `json:"category"`
	ScheduleMode ScheduleMode  `json:"schedule_mode"`
	Purpose      string        `json:"purpose,omitempty"`
	CostCenter   string        `json:"cost_center,omitempty"`
}

// NewTransactionRequest validates the caller-supplied fields. Malformed input
// is a precondition violation rejected here, before evaluation, so a billing
// amount error is never silently coerced.
func NewTransactionRequest(
	method PaymentMethod,
	amount int64,
	currency string,
	region string,
	timeOfDay MinuteOfDay,
	category Category,
	mode ScheduleMode,
	purpose string,
	costCenter string,
) (TransactionRequest, error) {
	if !method.IsValid() {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "invalid payment method")
	}
	if amount < 0 {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "amount cannot be negative")
	}
	if strings.TrimSpace(currency) == "" {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "currency cannot be empty")
	}
	if strings.TrimSpace(region) == "" {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "region cannot be empty")
	}
	if !timeOfDay.IsValid() {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "time of day out of range")
	}
	if !category.IsValid() {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "invalid category")
	}
	if !mode.IsValid() {
		return TransactionRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "invalid schedule mode")
	}
	return TransactionRequest{
		Method:       method,
		Amount:       amount,
		Currency:     currency,
		Region:       region,
		TimeOfDay:    timeOfDay,
		Category:     category,
		ScheduleMode: mode,
		Purpose:      purpose,
		CostCenter:   costCenter,
	}, nil
}

// HasPurpose reports whether the purpose tag is present.
// Whitespace-only counts as absent.
func (r TransactionRequest) HasPurpose() bool {
	return strings.TrimSpace(r.Purpose) != ""
}

// HasCostCenter reports whether the cost-center tag is present.
// Whitespace-only counts as absent.
func (r TransactionRequest) HasCostCenter() bool {
	return strings.TrimSpace(r.CostCenter) != ""
}

// MinuteOfDay is a local time of day at minute resolution: 0..1439.
type MinuteOfDay int

// IsValid checks the minute is within a single day.
func (m MinuteOfDay) IsValid() bool {
	return m >= 0 && m < 24*60
}

// ParseTimeOfDay parses "HH:MM" into a MinuteOfDay.
func ParseTimeOfDay(s string) (MinuteOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "time of day cannot be empty")
	}
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "time of day %q is not HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "time of day %q out of range", s)
	}
	return MinuteOfDay(hh*60 + mm), nil
}

// String formats the minute back to HH:MM.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
