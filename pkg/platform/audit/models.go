// Package audit defines the transport-agnostic audit event model shared by
// stores, the worker, and publishers.
package audit

import (
	"time"

	id "spendgate/pkg/domain"
)

// Action names for audit events.
const (
	ActionDecisionMade   = "decision_made"
	ActionRulesetUpdated = "ruleset_updated"
	ActionProgramUpdated = "program_updated"
	ActionSpendRecorded  = "spend_recorded"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	OrgID     id.OrgID  `json:"org_id"`
	Action    string    `json:"action"`

	// Decision fields, populated for ActionDecisionMade.
	Outcome          string   `json:"outcome,omitempty"`
	ReasonCodes      []string `json:"reason_codes,omitempty"`
	CorrelationID    string   `json:"correlation_id,omitempty"`
	PolicySnapshotID string   `json:"policy_snapshot_id,omitempty"`

	// Request provenance.
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`

	// ActorID tracks who performed a mutation (operator subject from the
	// bearer token) when the action is not a checkout decision.
	ActorID string `json:"actor_id,omitempty"`

	// Detail carries action-specific context, e.g. the amount for
	// spend_recorded or the snapshot ID for ruleset_updated.
	Detail string `json:"detail,omitempty"`
}

