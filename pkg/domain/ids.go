// Package domain holds typed identifiers shared across feature modules.
//
// IDs are distinct types over uuid.UUID so the compiler rejects accidental
// cross-assignment between, say, an organization and a correlation ID.
package domain

import (
	"github.com/google/uuid"

	dErrors "spendgate/pkg/domain-errors"
)

// OrgID identifies an organization enrolled in the corporate pay program.
type OrgID uuid.UUID

// CorrelationID ties a decision, its audit record, and downstream
// approval/exception requests together.
type CorrelationID uuid.UUID

// ParseOrgID validates and converts a string into an OrgID.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseOrgID(s string) (OrgID, error) {
	u, err := parseUUID(s, "org_id")
	if err != nil {
		return OrgID{}, err
	}
	return OrgID(u), nil
}

// NewCorrelationID generates a fresh correlation ID for one evaluation.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.New())
}

// ParseCorrelationID validates and converts a string into a CorrelationID.
func ParseCorrelationID(s string) (CorrelationID, error) {
	u, err := parseUUID(s, "correlation_id")
	if err != nil {
		return CorrelationID{}, err
	}
	return CorrelationID(u), nil
}

func (o OrgID) String() string         { return uuid.UUID(o).String() }
func (o OrgID) IsNil() bool            { return uuid.UUID(o) == uuid.Nil }
func (c CorrelationID) String() string { return uuid.UUID(c).String() }
func (c CorrelationID) IsNil() bool    { return uuid.UUID(c) == uuid.Nil }

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", field)
	}
	return u, nil
}
