package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/tournament-wallet-ledger/internal/config"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

const summaryEventType = "wallet.summary.v1"

// SummaryProducer publishes recomputed wallet summaries keyed by user.
type SummaryProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewSummaryProducer ensures the summary topic exists and opens a synchronous writer.
func NewSummaryProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*SummaryProducer, error) {
	if cfg.SummaryTopic == "" {
		return nil, fmt.Errorf("kafka summary topic is not configured")
	}

	if err := ensureTopic(cfg.Brokers, cfg.SummaryTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure summary topic %s exists: %w", cfg.SummaryTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SummaryTopic,
		Balancer:     &kafka.Hash{}, // per-user ordering
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return newSummaryProducer(logger, writer, cfg.SummaryTopic), nil
}

func newSummaryProducer(logger *slog.Logger, writer KafkaWriter, topic string) *SummaryProducer {
	return &SummaryProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// PublishSummary publishes one summary event under the user's key.
func (p *SummaryProducer) PublishSummary(ctx context.Context, event wallet.WalletSummaryEvent) error {
	headers := []kafka.Header{{Key: "event-type", Value: []byte(summaryEventType)}}
	if event.CausationID != "" {
		headers = append(headers, kafka.Header{Key: "causation-id", Value: []byte(event.CausationID)})
	}
	return p.publish(ctx, event.UserID, event, headers)
}

// Publish marshals value as JSON and writes it under key.
func (p *SummaryProducer) Publish(ctx context.Context, key string, value interface{}) error {
	return p.publish(ctx, key, value, nil)
}

func (p *SummaryProducer) publish(ctx context.Context, key string, value interface{}, headers []kafka.Header) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal summary message: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   jsonValue,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish summary message",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published summary message", "topic", p.topic, "key", key)
	return nil
}

func (p *SummaryProducer) Close() error {
	p.logger.Info("Closing summary Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close summary kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
