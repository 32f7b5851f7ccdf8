package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/epw-etl/internal/config"
	"github.com/couchcryptid/epw-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces parsed datasets to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchBytes:   maxFileBytes,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes datasets in a single WriteMessages call.
// Messages are keyed by dataset ID, so replays of one file land on one partition.
func (w *Writer) LoadBatch(ctx context.Context, datasets []domain.Dataset) error {
	if len(datasets) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(datasets))
	for i := range datasets {
		msg, err := serializeToMessage(datasets[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write datasets: %w", err)
	}
	w.logger.Debug("published datasets", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Dataset into a Kafka message.
func serializeToMessage(ds domain.Dataset) (kafkago.Message, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dataset: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ds.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: domain.SourceHeader, Value: []byte(ds.Source)},
			{Key: "record_count", Value: []byte(strconv.Itoa(ds.RecordCount))},
			{Key: "processed_at", Value: []byte(ds.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
