package invitation

import (
	"context"
	"sort"
	"strings"
	"sync"

	"registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemoryStore keeps invitations in memory for unit tests and local runs.
type InMemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	invitations map[domain.InvitationID]*Invitation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, invitations: make(map[domain.InvitationID]*Invitation)}
}

func (s *InMemoryStore) Create(_ context.Context, inv *Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invitations {
		if existing.Token == inv.Token {
			return sentinel.ErrConflict
		}
	}
	inv.ID = domain.InvitationID(s.nextID)
	s.nextID++
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.InvitationID) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *InMemoryStore) FindByToken(_ context.Context, token string) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindPendingByEmail(_ context.Context, email string) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(email)
	for _, inv := range s.invitations {
		if strings.ToLower(inv.Email) == key && inv.Status == StatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Invitation, 0, len(s.invitations))
	for _, inv := range s.invitations {
		cp := *inv
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

func (s *InMemoryStore) Update(_ context.Context, inv *Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invitations[inv.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}
