// Package memory provides an in-memory audit store for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	id "spendgate/pkg/domain"
	"spendgate/pkg/platform/audit"
)

type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) ListByOrg(_ context.Context, orgID id.OrgID, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]audit.Event, 0, limit)
	// Newest first.
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].OrgID != orgID {
			continue
		}
		result = append(result, s.events[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// All returns every stored event; test helper.
func (s *Store) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
