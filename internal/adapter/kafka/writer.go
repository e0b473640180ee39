package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/clean-energy-etl/internal/config"
	"github.com/couchcryptid/clean-energy-etl/internal/domain"
	"github.com/couchcryptid/clean-energy-etl/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes ranked rows to a Kafka topic.
// It implements pipeline.RankingLoader.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// rankedMessage is the JSON value of one published row.
type rankedMessage struct {
	domain.RankedRow
	GeneratedAt time.Time `json:"generated_at"`
}

// LoadRanking publishes every row of the ranking in a single WriteMessages
// call.
func (w *Writer) LoadRanking(ctx context.Context, ranking domain.Ranking) error {
	if len(ranking.Rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(ranking.Rows))
	for i, row := range ranking.Rows {
		msg, err := serializeToMessage(row, ranking.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish ranking: %w", err)
	}
	w.metrics.RankingsPublished.Add(float64(len(msgs)))
	w.logger.Info("ranking published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey identifies a row by country, year and source.
func messageKey(row domain.RankedRow) string {
	return row.Country + "|" + strconv.Itoa(row.Year) + "|" + row.Source.String()
}

// serializeToMessage marshals a ranked row into a Kafka message.
func serializeToMessage(row domain.RankedRow, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rankedMessage{RankedRow: row, GeneratedAt: generatedAt})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize ranked row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(row.Source.String())},
			{Key: "processed_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
