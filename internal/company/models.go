package company

import (
	"strings"
	"time"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// Status is the lifecycle state of a company profile.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is a known company status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Company is an issuer whose share register this service keeps.
//
// Invariants:
//   - Name is non-empty and at most 256 characters
//   - Status is one of active, inactive, suspended
//   - A company with registered shareholders cannot be deleted
type Company struct {
	ID        domain.CompanyID `json:"id"`
	Name      string           `json:"name"`
	Ticker    string           `json:"ticker"`
	Status    Status           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New validates and constructs an active company.
func New(name, ticker string, now time.Time) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "company name cannot be empty")
	}
	if len(name) > 256 {
		return nil, dErrors.New(dErrors.CodeValidation, "company name must be 256 characters or less")
	}
	return &Company{
		Name:      name,
		Ticker:    ticker,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
