package engine

import (
	"fmt"
	"time"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/program"
)

// buildAuditRecord captures everything needed to reconstruct a decision
// after the fact: the correlation id tying the decision to its request, the
// exact policy snapshot evaluated, the instant of evaluation, and the inputs
// that triggered the rules.
func buildAuditRecord(
	req models.TransactionRequest,
	res program.Resolution,
	rs config.Ruleset,
	now time.Time,
	correlationID string,
) models.AuditRecord {
	return models.AuditRecord{
		CorrelationID:    correlationID,
		PolicySnapshotID: rs.SnapshotID,
		EvaluatedAt:      now.UTC(),
		Triggers: []models.Trigger{
			{Label: "payment_method", Value: string(req.Method)},
			{Label: "amount", Value: fmt.Sprintf("%d %s", req.Amount, req.Currency)},
			{Label: "region", Value: req.Region},
			{Label: "time_of_day", Value: req.TimeOfDay.String()},
			{Label: "category", Value: string(req.Category)},
			{Label: "schedule_mode", Value: string(req.ScheduleMode)},
			{Label: "program_availability", Value: string(res.Availability)},
			{Label: "grace_active", Value: fmt.Sprintf("%t", res.GraceActive)},
		},
	}
}
