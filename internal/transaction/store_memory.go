package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps transactions in memory for unit tests and local runs.
type InMemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	transactions map[domain.TransactionID]*Transaction
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, transactions: make(map[domain.TransactionID]*Transaction)}
}

func (s *InMemoryStore) Create(_ context.Context, t *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = domain.TransactionID(s.nextID)
	s.nextID++
	cp := *t
	s.transactions[t.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.TransactionID) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemoryStore) ListByCompany(_ context.Context, id domain.CompanyID) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Transaction
	for _, t := range s.transactions {
		if t.CompanyID == id {
			cp := *t
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

func (s *InMemoryStore) ApproveByID(_ context.Context, id domain.TransactionID, approver domain.UserID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return false, nil
	}
	t.Status = StatusApproved
	if t.ApprovedBy == nil {
		by := approver
		at := now
		t.ApprovedBy = &by
		t.ApprovedAt = &at
	}
	t.UpdatedAt = now
	return true, nil
}

func (s *InMemoryStore) RejectByID(_ context.Context, id domain.TransactionID, reason *string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return false, nil
	}
	t.Status = StatusRejected
	if reason != nil {
		r := *reason
		t.RejectReason = &r
	}
	t.UpdatedAt = now
	return true, nil
}
