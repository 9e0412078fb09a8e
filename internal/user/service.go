package user

import (
	"context"
	"errors"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
)

// Service exposes user lookup. Account mutation happens through the
// invitation accept flow, which consumes the Store directly.
type Service struct {
	users Store
}

func NewService(users Store) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (*User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
	return u, nil
}
