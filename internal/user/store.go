package user

import (
	"context"

	"registrar/pkg/domain"
)

// Store persists users. Email is unique; Create returns
// sentinel.ErrConflict on a duplicate.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id domain.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
