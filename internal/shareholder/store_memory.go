package shareholder

import (
	"context"
	"sort"
	"sync"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps shareholders in memory for unit tests and local runs.
type InMemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	shareholders map[domain.ShareholderID]*Shareholder
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, shareholders: make(map[domain.ShareholderID]*Shareholder)}
}

func (s *InMemoryStore) Create(_ context.Context, sh *Shareholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = domain.ShareholderID(s.nextID)
	s.nextID++
	cp := *sh
	s.shareholders[sh.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ShareholderID) (*Shareholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shareholders[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (s *InMemoryStore) ListByCompany(_ context.Context, id domain.CompanyID) ([]*Shareholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Shareholder
	for _, sh := range s.shareholders {
		if sh.CompanyID == id {
			cp := *sh
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

func (s *InMemoryStore) CountByCompany(_ context.Context, id domain.CompanyID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sh := range s.shareholders {
		if sh.CompanyID == id {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) Update(_ context.Context, sh *Shareholder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shareholders[sh.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *sh
	s.shareholders[sh.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.ShareholderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shareholders[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.shareholders, id)
	return nil
}

// InMemoryHoldingStore keeps holdings in memory. Tests seed it directly;
// the service only reads from it.
type InMemoryHoldingStore struct {
	mu       sync.RWMutex
	nextID   int64
	holdings map[domain.HoldingID]*Holding
}

func NewInMemoryHoldingStore() *InMemoryHoldingStore {
	return &InMemoryHoldingStore{nextID: 1, holdings: make(map[domain.HoldingID]*Holding)}
}

// Put inserts or replaces a holding, assigning an id when absent.
func (s *InMemoryHoldingStore) Put(h *Holding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = domain.HoldingID(s.nextID)
		s.nextID++
	}
	cp := *h
	s.holdings[h.ID] = &cp
}

func (s *InMemoryHoldingStore) ListByShareholder(_ context.Context, id domain.ShareholderID) ([]*Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Holding
	for _, h := range s.holdings {
		if h.ShareholderID == id {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryHoldingStore) SumShares(_ context.Context, id domain.ShareholderID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, h := range s.holdings {
		if h.ShareholderID == id {
			sum += h.Shares
		}
	}
	return sum, nil
}
