package transaction

import (
	"time"

	"registrar/pkg/domain"
)

// Status is the processing state of a share transaction.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
	StatusProcessing Status = "processing"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusProcessing:
		return true
	}
	return false
}

// Transaction records a share movement awaiting back-office review. Approval
// stamps the reviewing user and timestamp once; rejection stores an
// optional reason.
type Transaction struct {
	ID           domain.TransactionID `json:"id"`
	CompanyID    domain.CompanyID     `json:"company_id"`
	Kind         string               `json:"kind"`
	Shares       int64                `json:"shares"`
	Status       Status               `json:"status"`
	ApprovedBy   *domain.UserID       `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time           `json:"approved_at,omitempty"`
	RejectReason *string              `json:"reject_reason,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
