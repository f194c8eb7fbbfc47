// Package program provides storage for per-organization program funding
// records.
package program

import (
	"context"
	"sync"

	"spendgate/internal/authorize/ports"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

// InMemoryRegistry is a concurrency-safe program registry for development
// and tests.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	records map[id.OrgID]ports.ProgramRecord
}

// NewInMemory creates an empty in-memory program registry.
func NewInMemory() *InMemoryRegistry {
	return &InMemoryRegistry{
		records: make(map[id.OrgID]ports.ProgramRecord),
	}
}

// Get retrieves the program record for an organization.
func (r *InMemoryRegistry) Get(_ context.Context, orgID id.OrgID) (ports.ProgramRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[orgID]
	if !ok {
		return ports.ProgramRecord{}, dErrors.Newf(dErrors.CodeNotFound, "no program record for org %s", orgID)
	}
	return record, nil
}

// Put replaces the program record for an organization.
func (r *InMemoryRegistry) Put(_ context.Context, orgID id.OrgID, record ports.ProgramRecord) error {
	if !record.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid program status")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[orgID] = record
	return nil
}
