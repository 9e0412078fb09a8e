package shareholder

import (
	"strings"
	"time"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// Status is the lifecycle state of a shareholder account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusDeceased  Status = "deceased"
	StatusEscheated Status = "escheated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeceased, StatusEscheated:
		return true
	}
	return false
}

// Shareholder is an account holding positions in a company's share classes.
//
// Invariants:
//   - belongs to exactly one company
//   - cannot be deleted while its holdings sum to more than zero shares
type Shareholder struct {
	ID        domain.ShareholderID `json:"id"`
	CompanyID domain.CompanyID     `json:"company_id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Status    Status               `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Holding is a book-entry position: a share count of one share class owned
// by one shareholder. The guard layer never creates or destroys holdings;
// they are read-only input to the deletion check.
type Holding struct {
	ID            domain.HoldingID     `json:"id"`
	ShareholderID domain.ShareholderID `json:"shareholder_id"`
	ShareClassID  domain.ShareClassID  `json:"share_class_id"`
	Shares        int64                `json:"shares"`
	Restricted    bool                 `json:"restricted"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// New validates and constructs an active shareholder.
func New(companyID domain.CompanyID, name, email string, now time.Time) (*Shareholder, error) {
	if companyID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "shareholder requires a company")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "shareholder name cannot be empty")
	}
	return &Shareholder{
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
