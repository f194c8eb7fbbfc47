package handler

import (
	"time"

	"spendgate/internal/authorize/models"
)

// EvaluateResponse is the HTTP response for POST /authorize/evaluate.
type EvaluateResponse struct {
	Outcome      string                `json:"outcome"`
	Reasons      []ReasonResponse      `json:"reasons"`
	Alternatives []AlternativeResponse `json:"alternatives"`
	CoachTips    []CoachTipResponse    `json:"coach_tips,omitempty"`
	Audit        AuditResponse         `json:"audit"`
}

// ReasonResponse is one policy reason in the response.
type ReasonResponse struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// AlternativeResponse is one remediation suggestion in the response.
type AlternativeResponse struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	ExpectedOutcome string              `json:"expected_outcome"`
	Patch           models.RequestPatch `json:"patch"`
}

// CoachTipResponse is one policy nudge in the response.
type CoachTipResponse struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Patch       *models.RequestPatch `json:"patch,omitempty"`
}

// AuditResponse is the audit portion of the response.
type AuditResponse struct {
	CorrelationID    string            `json:"correlation_id"`
	PolicySnapshotID string            `json:"policy_snapshot_id"`
	EvaluatedAt      time.Time         `json:"evaluated_at"`
	Triggers         []TriggerResponse `json:"triggers"`
}

// TriggerResponse is one evaluation input in the audit record.
type TriggerResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FromDecision converts a domain decision to an HTTP response.
func FromDecision(d models.Decision) *EvaluateResponse {
	resp := &EvaluateResponse{
		Outcome:      string(d.Outcome),
		Reasons:      make([]ReasonResponse, 0, len(d.Reasons)),
		Alternatives: make([]AlternativeResponse, 0, len(d.Alternatives)),
		Audit: AuditResponse{
			CorrelationID:    d.Audit.CorrelationID,
			PolicySnapshotID: d.Audit.PolicySnapshotID,
			EvaluatedAt:      d.Audit.EvaluatedAt,
			Triggers:         make([]TriggerResponse, 0, len(d.Audit.Triggers)),
		},
	}

	for _, reason := range d.Reasons {
		resp.Reasons = append(resp.Reasons, ReasonResponse{
			Code:     string(reason.Code),
			Severity: string(reason.Severity),
			Title:    reason.Title,
			Detail:   reason.Detail,
		})
	}
	for _, alt := range d.Alternatives {
		resp.Alternatives = append(resp.Alternatives, AlternativeResponse{
			Title:           alt.Title,
			Description:     alt.Description,
			ExpectedOutcome: string(alt.ExpectedOutcome),
			Patch:           alt.Patch,
		})
	}
	for _, tip := range d.CoachTips {
		resp.CoachTips = append(resp.CoachTips, CoachTipResponse{
			Title:       tip.Title,
			Description: tip.Description,
			Patch:       tip.Patch,
		})
	}
	for _, trg := range d.Audit.Triggers {
		resp.Audit.Triggers = append(resp.Audit.Triggers, TriggerResponse{
			Label: trg.Label,
			Value: trg.Value,
		})
	}
	return resp
}
