package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/messaging/producers"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
)

// Refresh event outcomes as recorded in metrics.
const (
	resultProcessed    = "processed"
	resultFailed       = "failed"
	resultDeadLettered = "dead_lettered"
)

// EventHandler handles wallet event messages from Kafka
type EventHandler struct {
	processor EventProcessor
	dlq       producers.DeadLetterPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewEventHandler creates a new handler
func NewEventHandler(
	logger *slog.Logger,
	processor EventProcessor,
	dlq producers.DeadLetterPublisher,
	m *metrics.Metrics,
) *EventHandler {
	return &EventHandler{
		processor: processor,
		dlq:       dlq,
		metrics:   m,
		logger:    logger,
	}
}

// HandleMessage processes one Kafka message. A nil return commits the offset.
func (h *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	event, err := wallet.ParseWalletEvent(msg.Value)
	if err != nil {
		return h.deadLetter(ctx, msg, err)
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	logger := h.logger.With("correlation_id", event.EventID)
	logger.Info("Received wallet event",
		"user_id", event.UserID,
		"source", event.Source,
		"occurred_at", event.OccurredAt,
	)

	if err := h.processor.ProcessEvent(ctx, event); err != nil {
		h.metrics.RefreshEvent(resultFailed)
		logger.Error("Failed to refresh wallet view", "user_id", event.UserID, "error", err)
		return fmt.Errorf("processing wallet event %s failed: %w", event.EventID, err)
	}

	h.metrics.RefreshEvent(resultProcessed)
	return nil
}

// deadLetter parks an unprocessable message. Retrying cannot fix it, so the offset is
// committed unless the DLQ write itself failed.
func (h *EventHandler) deadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	key := string(msg.Key)
	h.logger.Error("Unprocessable wallet event", "message_key", key, "error", cause)

	dlqErr := producers.ErrDLQDisabled
	if h.dlq != nil {
		dlqErr = h.dlq.PublishToDLQ(ctx, key, msg.Value, cause.Error())
	}
	switch {
	case dlqErr == nil:
		h.metrics.RefreshEvent(resultDeadLettered)
		return nil
	case errors.Is(dlqErr, producers.ErrDLQDisabled):
		h.metrics.RefreshEvent(resultFailed)
		h.logger.Warn("DLQ disabled, dropping unprocessable wallet event", "message_key", key)
		return nil
	default:
		h.metrics.RefreshEvent(resultFailed)
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", key,
		)
		return fmt.Errorf("failed to dead-letter wallet event: %w", cause)
	}
}
