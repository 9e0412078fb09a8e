package invitation

import (
	"time"

	"registrar/pkg/domain"
)

// Status is the stored lifecycle state of an invitation. A stored "pending"
// row whose expiry has passed is reported as expired; EffectiveStatus is the
// single place that decision lives.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
	StatusRevoked  Status = "revoked"
)

// Invitation invites an email address into a role, optionally scoped to a
// company. The token is an opaque capability; rotating it on resend
// invalidates every previously sent link.
type Invitation struct {
	ID         domain.InvitationID `json:"id"`
	Email      string              `json:"email"`
	Role       domain.Role         `json:"role"`
	CompanyID  *domain.CompanyID   `json:"company_id,omitempty"`
	Message    string              `json:"message,omitempty"`
	Token      string              `json:"token"`
	Status     Status              `json:"status"`
	ExpiresAt  time.Time           `json:"expires_at"`
	AcceptedBy *domain.UserID      `json:"accepted_by,omitempty"`
	AcceptedAt *time.Time          `json:"accepted_at,omitempty"`
	CreatedBy  domain.UserID       `json:"created_by"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// EffectiveStatus reports the invitation's real state at the given instant.
// Terminal states pass through unchanged; a pending invitation whose expiry
// has passed reads as expired even before the store row is flipped.
func EffectiveStatus(inv *Invitation, now time.Time) Status {
	if inv.Status == StatusPending && !now.Before(inv.ExpiresAt) {
		return StatusExpired
	}
	return inv.Status
}
