// Package kafka publishes audit events to the ops topic. The database is the
// source of truth; the topic feeds downstream compliance consumers, so a
// produce failure is logged and dropped rather than failing the request.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is a thin wrapper over a franz-go client pinned to one topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the brokers. Returns nil when no brokers are
// configured so callers can treat the sink as optional.
func NewProducer(brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: topic, logger: logger}, nil
}

// Publish sends one record keyed by entity so per-entity ordering holds
// within a partition. Delivery is asynchronous.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) {
	record := &kgo.Record{Key: []byte(key), Value: value}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit event publish failed",
				"topic", p.topic,
				"key", key,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and shuts the client down.
func (p *Producer) Close() {
	p.client.Close()
}
