package company

import (
	"context"
	"sort"
	"sync"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps companies in a mutex-guarded map for unit tests and
// local runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	companies map[domain.CompanyID]*Company
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, companies: make(map[domain.CompanyID]*Company)}
}

func (s *InMemoryStore) Create(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = domain.CompanyID(s.nextID)
	s.nextID++
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.CompanyID) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Company, 0, len(s.companies))
	for _, c := range s.companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.CompanyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.companies, id)
	return nil
}
