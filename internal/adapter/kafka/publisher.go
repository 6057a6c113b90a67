// Package kafka publishes plow snapshots to a Kafka topic so other
// consumers can track plow coverage without hitting the city feeds.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/street-plow-etl/internal/domain"
)

// Publisher produces snapshot messages to a Kafka topic.
// It implements joiner.SnapshotPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the snapshot topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSnapshot serializes and publishes one snapshot.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap *domain.PlowSnapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PlowSnapshot into a Kafka message. The key
// is the fetch time so compacted topics keep one message per refresh.
func serializeToMessage(snap *domain.PlowSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize plow snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.FetchedAt.Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "no_storm_data", Value: []byte(strconv.FormatBool(snap.NoStormData))},
			{Key: "lookup_entries", Value: []byte(strconv.Itoa(len(snap.Lookup)))},
		},
	}, nil
}
