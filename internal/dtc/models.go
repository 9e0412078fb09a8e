package dtc

import (
	"time"

	"registrar/pkg/domain"
)

// Status is the processing state of a DTC/DWAC request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Direction distinguishes moving shares into DTC custody from moving them
// back onto the register.
type Direction string

const (
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

func (d Direction) Valid() bool {
	return d == DirectionDeposit || d == DirectionWithdrawal
}

// Request is an electronic deposit or withdrawal instruction. Its statuses
// form no transition graph; the operations desk may move a request to any
// valid status, including backwards.
type Request struct {
	ID            domain.DTCRequestID  `json:"id"`
	CompanyID     domain.CompanyID     `json:"company_id"`
	ShareholderID domain.ShareholderID `json:"shareholder_id"`
	Direction     Direction            `json:"direction"`
	Shares        int64                `json:"shares"`
	Status        Status               `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
