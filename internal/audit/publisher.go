package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher captures structured audit events. The store write is synchronous
// so a completed operation is always visible in the trail; the Kafka mirror
// is decoupled through an inbox channel drained by the Worker.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event
}

const inboxCapacity = 256

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		logger: logger,
		inbox:  make(chan Event, inboxCapacity),
	}
}

// Emit records the event. Callers treat auditing as fire-and-forget: a
// failed append is logged, never propagated, so it cannot fail the
// operation it describes.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"action", string(event.Action),
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
			"error", err,
		)
		return
	}
	select {
	case p.inbox <- event:
	default:
		// Mirror queue full; the database copy is authoritative.
		p.logger.WarnContext(ctx, "audit mirror queue full, dropping event",
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
		)
	}
}

// List returns the trail for one entity, newest first.
func (p *Publisher) List(ctx context.Context, entityType string, entityID int64) ([]Event, error) {
	return p.store.ListByEntity(ctx, entityType, entityID)
}

// Inbox exposes the mirror channel for the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
