package audit

import (
	"context"
	"sync"

	"registrar/pkg/domain"
)

// InMemoryStore keeps events in memory for unit tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = domain.AuditEventID(s.nextID)
	s.nextID++
	s.events = append(s.events, event)
	return nil
}

// ListByEntity returns an entity's trail newest first.
func (s *InMemoryStore) ListByEntity(_ context.Context, entityType string, entityID int64) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if e := s.events[i]; e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
