// Package engine is the spend-authorization rule evaluator. It is pure and
// synchronous: one call per checkout attempt, no I/O, no shared state, the
// clock and the policy snapshot supplied by the caller.
package engine

import (
	"fmt"
	"time"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/program"
)

// Evaluate runs the full rule set and assembles the decision: outcome,
// ordered reasons, deduplicated alternatives, coach tips, and the audit
// record. The outcome is a pure max-severity fold over the reasons present,
// never a function of rule order.
func Evaluate(
	req models.TransactionRequest,
	res program.Resolution,
	rs config.Ruleset,
	now time.Time,
	correlationID string,
) models.Decision {
	reasons := evaluateReasons(req, res, rs)
	outcome := outcomeFor(reasons)

	decision := models.Decision{
		Outcome:      outcome,
		Reasons:      reasons,
		Alternatives: alternatives(req, res, rs, reasons),
		Audit:        buildAuditRecord(req, res, rs, now, correlationID),
	}

	// Coach tips are policy-configured nudges, independent of violations,
	// shown on every corporate checkout.
	if req.Method == models.MethodCorporatePay {
		decision.CoachTips = append(decision.CoachTips, rs.CoachTips...)
	}
	return decision
}

// evaluateReasons appends zero or one reason per rule, preserving discovery
// order. Evaluation does not stop at the first violation: the full reason set
// is needed for display and remediation. The two exceptions are documented
// inline.
func evaluateReasons(
	req models.TransactionRequest,
	res program.Resolution,
	rs config.Ruleset,
) []models.PolicyReason {
	// Rule 1: payment-method gate. Corporate policy is scoped to
	// corporate-funded transactions; anything else is allowed outright.
	// This is the one true short-circuit.
	if req.Method != models.MethodCorporatePay {
		return []models.PolicyReason{{
			Code:     models.ReasonMethodNotCorporate,
			Severity: models.SeverityInfo,
			Title:    "Outside corporate policy",
			Detail:   fmt.Sprintf("Payment method %q is not covered by corporate policy.", req.Method),
		}}
	}

	var reasons []models.PolicyReason

	// Rule 2: program gate. An unavailable program forces Blocked via its
	// critical reason; the remaining rules still run so remediation can see
	// every violation.
	if res.Reason != nil {
		reasons = append(reasons, *res.Reason)
	}

	// Rule 3: required fields are a hard precondition. Without them no
	// amount or category classification is meaningful, so the geo, temporal
	// and amount rules below are skipped entirely.
	fieldsPresent := true
	if rs.RequirePurpose && !req.HasPurpose() {
		fieldsPresent = false
		reasons = append(reasons, models.PolicyReason{
			Code:     models.ReasonPurposeMissing,
			Severity: models.SeverityCritical,
			Title:    "Purpose required",
			Detail:   "A trip purpose is required before this checkout can be evaluated.",
		})
	}
	if rs.RequireCostCenter && !req.HasCostCenter() {
		fieldsPresent = false
		reasons = append(reasons, models.PolicyReason{
			Code:     models.ReasonCostCenterMissing,
			Severity: models.SeverityCritical,
			Title:    "Cost center required",
			Detail:   "A cost center is required before this checkout can be evaluated.",
		})
	}

	if fieldsPresent {
		// Rule 4: geographic gate.
		if !rs.RegionApproved(req.Region) {
			reasons = append(reasons, models.PolicyReason{
				Code:     models.ReasonGeoRestricted,
				Severity: models.SeverityCritical,
				Title:    "Region not approved",
				Detail:   fmt.Sprintf("Region %q is outside the organization's approved regions.", req.Region),
			})
		}

		// Rule 5: temporal gate, inclusive on both bounds.
		if !rs.WithinHours(req.TimeOfDay) {
			reasons = append(reasons, models.PolicyReason{
				Code:     models.ReasonOutsideHours,
				Severity: models.SeverityCritical,
				Title:    "Outside allowed hours",
				Detail: fmt.Sprintf("Time %s is outside the allowed window %s-%s.",
					req.TimeOfDay, rs.HoursStart, rs.HoursEnd),
			})
		}

		// Rule 6: per-transaction hard cap. Strictly greater-than: an amount
		// exactly at the limit is not a violation.
		if rs.PerTransactionLimit > 0 && req.Amount > rs.PerTransactionLimit {
			reasons = append(reasons, models.PolicyReason{
				Code:     models.ReasonOverLimit,
				Severity: models.SeverityCritical,
				Title:    "Over transaction limit",
				Detail: fmt.Sprintf("Amount %d %s exceeds the per-transaction limit of %d.",
					req.Amount, req.Currency, rs.PerTransactionLimit),
			})
		}

		// Rule 7: approval threshold for the premium tier. Strictly
		// greater-than, same as the hard cap.
		if req.Category == models.CategoryPremium && rs.ApprovalThreshold > 0 && req.Amount > rs.ApprovalThreshold {
			reasons = append(reasons, models.PolicyReason{
				Code:     models.ReasonApprovalThreshold,
				Severity: models.SeverityWarning,
				Title:    "Approval required",
				Detail: fmt.Sprintf("Premium checkouts above %d %s need a manager's approval.",
					rs.ApprovalThreshold, req.Currency),
			})
		}
	}

	// Rule 8: a clean pass still explains itself.
	if len(reasons) == 0 {
		reasons = append(reasons, models.PolicyReason{
			Code:     models.ReasonWithinPolicy,
			Severity: models.SeverityInfo,
			Title:    "Within policy",
			Detail:   "This checkout complies with the organization's spend policy.",
		})
	}
	return reasons
}

// outcomeFor derives the outcome from the maximum severity present.
// Blocked iff any critical reason, else ApprovalRequired iff any warning,
// else Allowed. An unrecognized severity fails closed to Blocked.
func outcomeFor(reasons []models.PolicyReason) models.Outcome {
	outcome := models.OutcomeAllowed
	for _, reason := range reasons {
		var candidate models.Outcome
		switch reason.Severity {
		case models.SeverityCritical:
			candidate = models.OutcomeBlocked
		case models.SeverityWarning:
			candidate = models.OutcomeApprovalRequired
		case models.SeverityInfo:
			candidate = models.OutcomeAllowed
		default:
			candidate = models.OutcomeBlocked
		}
		if candidate.WorseThan(outcome) {
			outcome = candidate
		}
	}
	return outcome
}

// predictOutcome re-runs the rules against a patched request to compute an
// alternative's expected outcome. Program resolution is request-independent,
// so the original resolution is reused.
func predictOutcome(
	patched models.TransactionRequest,
	res program.Resolution,
	rs config.Ruleset,
) models.Outcome {
	return outcomeFor(evaluateReasons(patched, res, rs))
}
