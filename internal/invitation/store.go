package invitation

import (
	"context"

	"registrar/pkg/domain"
)

// Store persists invitations. Token is unique; Create returns
// sentinel.ErrConflict on a duplicate token.
type Store interface {
	Create(ctx context.Context, inv *Invitation) error
	FindByID(ctx context.Context, id domain.InvitationID) (*Invitation, error)
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) (*Invitation, error)
	List(ctx context.Context) ([]*Invitation, error)
	Update(ctx context.Context, inv *Invitation) error
}
