// Package ruleset provides storage for per-organization policy snapshots.
package ruleset

import (
	"context"
	"sync"

	"spendgate/internal/authorize/config"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

// InMemoryStore is a concurrency-safe ruleset store for development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	rulesets map[id.OrgID]config.Ruleset
}

// NewInMemory creates an empty in-memory ruleset store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		rulesets: make(map[id.OrgID]config.Ruleset),
	}
}

// Get retrieves the active ruleset for an organization.
func (s *InMemoryStore) Get(_ context.Context, orgID id.OrgID) (config.Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, ok := s.rulesets[orgID]
	if !ok {
		return config.Ruleset{}, dErrors.Newf(dErrors.CodeNotFound, "no ruleset for org %s", orgID)
	}
	return rs, nil
}

// Put replaces the active ruleset for an organization. The snapshot is
// validated and normalized before it becomes visible to readers.
func (s *InMemoryStore) Put(_ context.Context, orgID id.OrgID, rs config.Ruleset) error {
	if err := rs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rulesets[orgID] = rs.Normalized()
	return nil
}
