package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/config"
	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes dashboard snapshots to a Kafka topic consumed by the
// rendering front end. It implements pipeline.SnapshotLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSnapshot serializes and publishes one snapshot. Snapshots for the same
// selection share a key, so they land on one partition in order.
func (w *Writer) LoadSnapshot(ctx context.Context, snap dashboard.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", snap.Key(), err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "key", snap.Key(), "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap dashboard.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(snap.Year)},
			{Key: "column", Value: []byte(snap.Column)},
			{Key: "run_id", Value: []byte(snap.RunID)},
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
