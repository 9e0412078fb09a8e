package company

import (
	"context"

	"registrar/pkg/domain"
)

// Store persists companies. Implementations return sentinel errors for
// infrastructure facts; the service translates them into coded errors.
type Store interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id domain.CompanyID) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id domain.CompanyID) error
}

// ShareholderCounter is the slice of the shareholder store the delete guard
// needs. Defined here so the company package does not import the shareholder
// package.
type ShareholderCounter interface {
	CountByCompany(ctx context.Context, id domain.CompanyID) (int, error)
}
