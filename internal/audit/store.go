package audit

import "context"

// Store persists audit events. Append-only; nothing updates or deletes an
// event once written.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Event, error)
}
