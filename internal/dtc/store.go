package dtc

import (
	"context"
	"time"

	"registrar/pkg/domain"
)

// Store persists DTC requests.
//
// UpdateStatusByID is the row-level primitive behind the bulk operator: it
// writes the target status unconditionally and reports whether a row
// matched. A nonexistent id is a silent no-op (matched = false).
type Store interface {
	Create(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id domain.DTCRequestID) (*Request, error)
	ListByCompany(ctx context.Context, id domain.CompanyID) ([]*Request, error)
	UpdateStatusByID(ctx context.Context, id domain.DTCRequestID, status Status, now time.Time) (bool, error)
}
