package shareholder

import (
	"context"

	"registrar/pkg/domain"
)

// Store persists shareholder accounts.
type Store interface {
	Create(ctx context.Context, sh *Shareholder) error
	FindByID(ctx context.Context, id domain.ShareholderID) (*Shareholder, error)
	ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Shareholder, error)
	CountByCompany(ctx context.Context, id domain.CompanyID) (int, error)
	Update(ctx context.Context, sh *Shareholder) error
	Delete(ctx context.Context, id domain.ShareholderID) error
}

// HoldingStore reads positions. The guard layer only ever reads holdings;
// share movements happen through transaction processing, outside this
// package.
type HoldingStore interface {
	ListByShareholder(ctx context.Context, id domain.ShareholderID) ([]*Holding, error)
	SumShares(ctx context.Context, id domain.ShareholderID) (int64, error)
}
