package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/pkg/domain"
)

type capturingSink struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
}

func (s *capturingSink) Publish(_ context.Context, key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	s.payloads = append(s.payloads, value)
}

func (s *capturingSink) snapshot() ([]string, [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...), append([][]byte(nil), s.payloads...)
}

func newTestPublisher() (*Publisher, *InMemoryStore) {
	store := NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPublisher(store, logger), store
}

func TestEmitAppendsToStore(t *testing.T) {
	publisher, store := newTestPublisher()
	ctx := context.Background()

	publisher.Emit(ctx, Event{
		UserID:     domain.UserID(1),
		Action:     ActionCreate,
		EntityType: "company",
		EntityID:   7,
	})

	events, err := store.ListByEntity(ctx, "company", 7)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionCreate, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEmitSurvivesFailingStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := NewPublisher(failingStore{}, logger)

	// must not panic or block
	publisher.Emit(context.Background(), Event{Action: ActionUpdate, EntityType: "company", EntityID: 1})

	select {
	case <-publisher.Inbox():
		t.Fatal("event must not reach the mirror when the store append fails")
	default:
	}
}

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error { return assert.AnError }
func (failingStore) ListByEntity(context.Context, string, int64) ([]Event, error) {
	return nil, assert.AnError
}

func TestWorkerDrainsInboxToSink(t *testing.T) {
	publisher, _ := newTestPublisher()
	sink := &capturingSink{}
	worker := NewWorker(sink, publisher.Inbox())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	publisher.Emit(ctx, Event{
		UserID:     domain.UserID(1),
		Action:     ActionBulkUpdate,
		EntityType: "certificate",
		EntityID:   3,
	})

	require.Eventually(t, func() bool {
		keys, _ := sink.snapshot()
		return len(keys) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	keys, payloads := sink.snapshot()
	assert.Equal(t, "certificate:3", keys[0])

	var event Event
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, ActionBulkUpdate, event.Action)
}
