// Package program resolves an organization's funding status into a payment
// availability. Pure domain logic: no I/O, no side effects, the clock is an
// explicit parameter.
package program

import (
	"fmt"
	"time"

	"spendgate/internal/authorize/models"
)

// Resolution is the resolver's output. Reason is nil when the program is
// fully available; otherwise it explains the degradation or the block.
type Resolution struct {
	Availability models.PaymentAvailability
	Reason       *models.PolicyReason
	GraceActive  bool
}

// Resolve maps {status, grace window, now} to a payment availability.
// Total over its input domain: unknown statuses resolve to Unavailable rather
// than panicking, so a registry schema drift degrades safely.
func Resolve(status models.ProgramStatus, grace models.GraceWindow, now time.Time) Resolution {
	switch status {
	case models.ProgramEligible:
		return Resolution{Availability: models.AvailabilityAvailable}

	case models.ProgramBillingDelinquent:
		if grace.ActiveAt(now) {
			return Resolution{
				Availability: models.AvailabilityRequiresApproval,
				GraceActive:  true,
				Reason: &models.PolicyReason{
					Code:     models.ReasonBillingGrace,
					Severity: models.SeverityWarning,
					Title:    "Billing overdue",
					Detail: fmt.Sprintf(
						"The organization's billing is overdue. Corporate pay remains usable until the grace period ends at %s.",
						grace.Expiry.Format(time.RFC3339)),
				},
			}
		}
		return Resolution{
			Availability: models.AvailabilityUnavailable,
			Reason: &models.PolicyReason{
				Code:     models.ReasonProgramUnavailable,
				Severity: models.SeverityCritical,
				Title:    "Corporate pay suspended",
				Detail:   "The organization's billing is overdue and the grace period has ended.",
			},
		}

	case models.ProgramNotLinked:
		return unavailable("Corporate pay not linked",
			"This account is not linked to a corporate pay program.")
	case models.ProgramNotEligible:
		return unavailable("Corporate pay not eligible",
			"The organization's corporate pay enrollment is not eligible for this transaction.")
	case models.ProgramDepositDepleted:
		return unavailable("Corporate deposit depleted",
			"The organization's prepaid deposit is exhausted.")
	case models.ProgramCreditLimitExceeded:
		return unavailable("Corporate credit limit reached",
			"The organization has reached its credit limit.")
	}

	return unavailable("Corporate pay unavailable",
		fmt.Sprintf("Unrecognized program status %q.", status))
}

func unavailable(title, detail string) Resolution {
	return Resolution{
		Availability: models.AvailabilityUnavailable,
		Reason: &models.PolicyReason{
			Code:     models.ReasonProgramUnavailable,
			Severity: models.SeverityCritical,
			Title:    title,
			Detail:   detail,
		},
	}
}
