package transaction

import (
	"context"
	"time"

	"registrar/pkg/domain"
)

// Store persists transactions.
//
// ApproveByID and RejectByID are the row-level primitives behind the bulk
// operators. Both write unconditionally, stamp reviewer metadata only when
// not already present, and report whether a row matched. A nonexistent id
// is a silent no-op (matched = false).
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	FindByID(ctx context.Context, id domain.TransactionID) (*Transaction, error)
	ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Transaction, error)
	ApproveByID(ctx context.Context, id domain.TransactionID, approver domain.UserID, now time.Time) (bool, error)
	RejectByID(ctx context.Context, id domain.TransactionID, reason *string, now time.Time) (bool, error)
}
