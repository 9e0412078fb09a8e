package audit

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sink receives serialized audit events for downstream consumers.
// internal/platform/kafka.Producer satisfies it.
type Sink interface {
	Publish(ctx context.Context, key string, value []byte)
}

// Worker drains the publisher inbox into a sink. It keeps background
// processing testable without wiring broker implementations into services.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			key := fmt.Sprintf("%s:%d", event.EntityType, event.EntityID)
			w.sink.Publish(ctx, key, payload)
		}
	}
}
