package certificate

import (
	"context"
	"time"

	"registrar/pkg/domain"
)

// Store persists certificates.
//
// CancelByID is the row-level primitive behind bulk cancellation: it
// unconditionally sets status to cancelled, stamps cancel_date only when not
// already set, and reports whether a row matched. Cancelling a nonexistent
// id is a silent no-op (matched = false), mirroring the storage layer's
// update semantics.
type Store interface {
	Create(ctx context.Context, c *Certificate) error
	FindByID(ctx context.Context, id domain.CertificateID) (*Certificate, error)
	ListByShareholder(ctx context.Context, id domain.ShareholderID) ([]*Certificate, error)
	CancelByID(ctx context.Context, id domain.CertificateID, now time.Time) (bool, error)
}
