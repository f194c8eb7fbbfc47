// Package usage provides storage for period spend counters.
package usage

import (
	"context"
	"sync"

	id "spendgate/pkg/domain"
)

type memoryKey struct {
	orgID  id.OrgID
	period string
}

// InMemoryStore is a concurrency-safe usage counter store for development
// and tests.
type InMemoryStore struct {
	mu     sync.Mutex
	totals map[memoryKey]int64
}

// NewInMemory creates an empty in-memory usage store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		totals: make(map[memoryKey]int64),
	}
}

// Add increments the counter for an org and period, returning the new total.
func (s *InMemoryStore) Add(_ context.Context, orgID id.OrgID, period string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{orgID: orgID, period: period}
	s.totals[key] += amount
	return s.totals[key], nil
}

// Total returns the accumulated spend for an org and period. A period with
// no recorded spend totals zero.
func (s *InMemoryStore) Total(_ context.Context, orgID id.OrgID, period string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals[memoryKey{orgID: orgID, period: period}], nil
}
