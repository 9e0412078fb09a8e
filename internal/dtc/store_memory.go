package dtc

import (
	"context"
	"sort"
	"sync"
	"time"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps DTC requests in memory for unit tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	requests map[domain.DTCRequestID]*Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, requests: make(map[domain.DTCRequestID]*Request)}
}

func (s *InMemoryStore) Create(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = domain.DTCRequestID(s.nextID)
	s.nextID++
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DTCRequestID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *InMemoryStore) ListByCompany(_ context.Context, id domain.CompanyID) ([]*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Request
	for _, req := range s.requests {
		if req.CompanyID == id {
			cp := *req
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

func (s *InMemoryStore) UpdateStatusByID(_ context.Context, id domain.DTCRequestID, status Status, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return false, nil
	}
	req.Status = status
	req.UpdatedAt = now
	return true, nil
}
