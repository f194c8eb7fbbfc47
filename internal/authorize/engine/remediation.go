package engine

import (
	"fmt"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/program"
)

const maxAlternatives = 6

// alternatives proposes minimal request changes that would resolve the
// violations found. Candidates are generated per reason in discovery order,
// each with an honestly computed expected outcome, then deduplicated on
// (title, patch) and capped.
func alternatives(
	req models.TransactionRequest,
	res program.Resolution,
	rs config.Ruleset,
	reasons []models.PolicyReason,
) []models.Alternative {
	var candidates []models.Alternative

	add := func(title, description string, patch models.RequestPatch) {
		candidates = append(candidates, models.Alternative{
			Title:           title,
			Description:     description,
			ExpectedOutcome: predictOutcome(patch.ApplyTo(req), res, rs),
			Patch:           patch,
		})
	}

	for _, reason := range reasons {
		switch reason.Code {
		case models.ReasonMethodNotCorporate:
			add("Switch to corporate pay",
				"Pay with the corporate program to have this trip covered by company policy.",
				models.PatchMethod(models.MethodCorporatePay))

		case models.ReasonProgramUnavailable, models.ReasonBillingGrace,
			models.ReasonPurposeMissing, models.ReasonCostCenterMissing:
			add(payPersonallyTitle, payPersonallyDescription,
				models.PatchMethod(models.MethodPersonalWallet))

		case models.ReasonGeoRestricted:
			if len(rs.ApprovedRegions) > 0 {
				region := rs.ApprovedRegions[0]
				add("Start from an approved region",
					fmt.Sprintf("Trips starting in %s are covered by your organization's policy.", region),
					models.PatchRegion(region))
			}
			add(payPersonallyTitle, payPersonallyDescription,
				models.PatchMethod(models.MethodPersonalWallet))

		case models.ReasonOutsideHours:
			add("Schedule within allowed hours",
				fmt.Sprintf("Schedule this trip between %s and %s to stay within policy.",
					rs.HoursStart, rs.HoursEnd),
				models.PatchTimeOfDay(rs.HoursStart))

		case models.ReasonOverLimit:
			add("Reduce the amount",
				fmt.Sprintf("Amounts up to %d %s clear the per-transaction limit.",
					rs.PerTransactionLimit, req.Currency),
				models.PatchAmount(rs.PerTransactionLimit))
			add(payPersonallyTitle, payPersonallyDescription,
				models.PatchMethod(models.MethodPersonalWallet))

		case models.ReasonApprovalThreshold:
			add("Switch to Standard",
				"Standard-tier checkouts under the approval threshold clear without a manager's sign-off.",
				models.PatchCategory(models.CategoryStandard))
		}
	}

	// Universal fallback: paying personally always sidesteps corporate
	// policy entirely. Appended last so reason-specific suggestions win the
	// ordering; the dedupe below collapses it with any earlier copy.
	add(payPersonallyTitle, payPersonallyDescription,
		models.PatchMethod(models.MethodPersonalWallet))

	return dedupeAndCap(candidates)
}

const (
	payPersonallyTitle       = "Pay personally"
	payPersonallyDescription = "Use a personal payment method; corporate spend policy will not apply."
)

// dedupeAndCap keeps the first occurrence of each (title, patch) pair and
// truncates to the display cap.
func dedupeAndCap(candidates []models.Alternative) []models.Alternative {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Alternative, 0, len(candidates))
	for _, alt := range candidates {
		key := alt.Title + "\x00" + alt.Patch.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, alt)
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}
