// Package config defines the per-organization policy ruleset the evaluator is
// parameterized by. One generic evaluator plus one of these replaces the
// per-checkout-flow rule copies the product started with.
package config

import (
	"strings"

	"spendgate/internal/authorize/models"
	dErrors "spendgate/pkg/domain-errors"
	pstrings "spendgate/pkg/platform/strings"
)

// Ruleset is the read-only policy configuration for one evaluation. Callers
// snapshot it before invoking the evaluator so a single evaluation sees a
// consistent view even under hot reload.
type Ruleset struct {
	SnapshotID string `json:"snapshot_id"`

	// ApprovedRegions is the geographic allowlist. Empty means no geographic
	// restriction.
	ApprovedRegions []string `json:"approved_regions"`

	// HoursStart and HoursEnd bound the allowed time-of-day window,
	// inclusive on both ends.
	HoursStart models.MinuteOfDay `json:"hours_start"`
	HoursEnd   models.MinuteOfDay `json:"hours_end"`

	// ApprovalThreshold is the amount above which premium-category
	// transactions require approval. Strictly greater-than.
	ApprovalThreshold int64 `json:"approval_threshold"`

	// PerTransactionLimit is the hard cap regardless of approval.
	// Strictly greater-than.
	PerTransactionLimit int64 `json:"per_transaction_limit"`

	RequirePurpose    bool `json:"require_purpose"`
	RequireCostCenter bool `json:"require_cost_center"`

	// MonthlyCap bounds period spend; consumed by the budget forecaster,
	// never by the evaluator itself.
	MonthlyCap int64 `json:"monthly_cap"`

	// CoachTips are policy-configured nudges shown on every CorporatePay
	// checkout, independent of violations.
	CoachTips []models.CoachTip `json:"coach_tips"`
}

// Validate enforces ruleset invariants before a store accepts it.
func (r Ruleset) Validate() error {
	if strings.TrimSpace(r.SnapshotID) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "snapshot_id cannot be empty")
	}
	if !r.HoursStart.IsValid() || !r.HoursEnd.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "hours window out of range")
	}
	if r.HoursStart > r.HoursEnd {
		return dErrors.New(dErrors.CodeInvariantViolation, "hours_start must not be after hours_end")
	}
	if r.ApprovalThreshold < 0 || r.PerTransactionLimit < 0 || r.MonthlyCap < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "thresholds cannot be negative")
	}
	if r.PerTransactionLimit > 0 && r.ApprovalThreshold > r.PerTransactionLimit {
		return dErrors.New(dErrors.CodeInvariantViolation, "approval_threshold cannot exceed per_transaction_limit")
	}
	return nil
}

// Normalized returns a copy with regions deduplicated and trimmed.
func (r Ruleset) Normalized() Ruleset {
	out := r
	out.ApprovedRegions = pstrings.DedupeAndTrim(r.ApprovedRegions)
	return out
}

// RegionApproved reports whether the region passes the geographic allowlist.
// Matching is case-insensitive; an empty allowlist approves everything.
func (r Ruleset) RegionApproved(region string) bool {
	if len(r.ApprovedRegions) == 0 {
		return true
	}
	for _, approved := range r.ApprovedRegions {
		if strings.EqualFold(approved, region) {
			return true
		}
	}
	return false
}

// WithinHours reports whether the minute falls inside the allowed window,
// inclusive on both bounds.
func (r Ruleset) WithinHours(t models.MinuteOfDay) bool {
	return t >= r.HoursStart && t <= r.HoursEnd
}

// DefaultRuleset returns the development/test configuration.
func DefaultRuleset() Ruleset {
	standard := models.PatchCategory(models.CategoryStandard)
	return Ruleset{
		SnapshotID:          "default-v1",
		ApprovedRegions:     []string{"Kampala", "Entebbe", "Jinja"},
		HoursStart:          6 * 60,  // 06:00
		HoursEnd:            22 * 60, // 22:00
		ApprovalThreshold:   200_000,
		PerTransactionLimit: 600_000,
		RequirePurpose:      true,
		RequireCostCenter:   true,
		MonthlyCap:          5_000_000,
		CoachTips: []models.CoachTip{
			{
				Title:       "Standard rides clear faster",
				Description: "Standard-category checkouts stay under the approval threshold more often.",
				Patch:       &standard,
			},
		},
	}
}
