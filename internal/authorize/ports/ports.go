// Package ports defines shared interfaces for the authorize module.
// Interfaces are placed here when consumed by multiple services to avoid duplication.
package ports

import (
	"context"
	"log/slog"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/models"
	id "spendgate/pkg/domain"
	"spendgate/pkg/platform/audit"
	request "spendgate/pkg/platform/middleware/request"
)

// AuditPublisher emits audit events for decision-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// RulesetStore manages per-organization policy snapshots.
type RulesetStore interface {
	// Get retrieves the active ruleset for an organization.
	// Returns a not_found error when the organization has no ruleset.
	Get(ctx context.Context, orgID id.OrgID) (config.Ruleset, error)

	// Put replaces the active ruleset for an organization.
	Put(ctx context.Context, orgID id.OrgID, rs config.Ruleset) error
}

// ProgramRecord is the stored funding state of an organization's corporate
// pay enrollment.
type ProgramRecord struct {
	Status models.ProgramStatus `json:"status"`
	Grace  models.GraceWindow   `json:"grace"`
}

// ProgramRegistry manages per-organization program funding records.
type ProgramRegistry interface {
	// Get retrieves the program record for an organization.
	// Returns a not_found error when the organization is not registered.
	Get(ctx context.Context, orgID id.OrgID) (ProgramRecord, error)

	// Put replaces the program record for an organization.
	Put(ctx context.Context, orgID id.OrgID, record ProgramRecord) error
}

// LogAudit is a shared helper for logging audit events across authorize
// services. It logs to both the structured logger and the audit publisher if
// available.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event, attrs ...any) {
	if requestID := request.GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
		if event.RequestID == "" {
			event.RequestID = requestID
		}
	}

	args := append(attrs, "event", event.Action, "log_type", "audit")

	if logger != nil {
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
