package user

import (
	"time"

	"registrar/pkg/domain"
)

// Status is the account state of a dashboard user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is a dashboard account. Role and company assignment change when the
// user accepts an invitation.
type User struct {
	ID        domain.UserID     `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Role      domain.Role       `json:"role"`
	CompanyID *domain.CompanyID `json:"company_id,omitempty"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
