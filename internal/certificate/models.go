package certificate

import (
	"time"

	"registrar/pkg/domain"
)

// Status is the lifecycle state of a physical certificate.
type Status string

const (
	StatusActive      Status = "active"
	StatusLost        Status = "lost"
	StatusStolen      Status = "stolen"
	StatusTransferred Status = "transferred"
	StatusCancelled   Status = "cancelled"
	StatusPending     Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusLost, StatusStolen, StatusTransferred, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// Certificate is a paper-record representation of a block of shares,
// distinct from book-entry holdings. Cancellation stamps a cancel date once;
// re-cancelling keeps the original stamp so the operation is idempotent.
type Certificate struct {
	ID            domain.CertificateID `json:"id"`
	ShareholderID domain.ShareholderID `json:"shareholder_id"`
	ShareClassID  domain.ShareClassID  `json:"share_class_id"`
	Number        string               `json:"certificate_number"`
	Shares        int64                `json:"shares"`
	Status        Status               `json:"status"`
	IssueDate     time.Time            `json:"issue_date"`
	CancelDate    *time.Time           `json:"cancel_date,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
