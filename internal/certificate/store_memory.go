package certificate

import (
	"context"
	"sort"
	"sync"
	"time"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps certificates in memory for unit tests and local runs.
type InMemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	certificates map[domain.CertificateID]*Certificate
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, certificates: make(map[domain.CertificateID]*Certificate)}
}

func (s *InMemoryStore) Create(_ context.Context, c *Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = domain.CertificateID(s.nextID)
	s.nextID++
	cp := *c
	s.certificates[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.CertificateID) (*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certificates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) ListByShareholder(_ context.Context, id domain.ShareholderID) ([]*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Certificate
	for _, c := range s.certificates {
		if c.ShareholderID == id {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) CancelByID(_ context.Context, id domain.CertificateID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certificates[id]
	if !ok {
		return false, nil
	}
	c.Status = StatusCancelled
	if c.CancelDate == nil {
		stamp := now
		c.CancelDate = &stamp
	}
	c.UpdatedAt = now
	return true, nil
}
