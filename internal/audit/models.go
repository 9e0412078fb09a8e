package audit

import (
	"encoding/json"
	"time"

	"registrar/pkg/domain"
)

// Action is the verb recorded against an entity.
type Action string

const (
	ActionCreate       Action = "CREATE"
	ActionUpdate       Action = "UPDATE"
	ActionDelete       Action = "DELETE"
	ActionBulkUpdate   Action = "BULK_UPDATE"
	ActionInvite       Action = "INVITE"
	ActionAcceptInvite Action = "ACCEPT_INVITE"
	ActionRevokeInvite Action = "REVOKE_INVITE"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         domain.AuditEventID `json:"id"`
	UserID     domain.UserID       `json:"user_id"`
	CompanyID  *domain.CompanyID   `json:"company_id,omitempty"`
	Action     Action              `json:"action"`
	EntityType string              `json:"entity_type"`
	EntityID   int64               `json:"entity_id"`
	OldValues  json.RawMessage     `json:"old_values,omitempty"`
	NewValues  json.RawMessage     `json:"new_values,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Marshal renders v as the JSON snapshot stored in OldValues/NewValues.
// A nil input produces no snapshot; marshal failures degrade to nil because
// the audit write must not fail the operation it describes.
func Marshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
