package refresher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/messaging/producers"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
)

const eventsTotal = "wallet_refresher_events_total"

func TestEventHandler_HandleMessage(t *testing.T) {
	ctx := context.Background()

	setup := func(dlq producers.DeadLetterPublisher) (*MockEventProcessor, *prometheus.Registry, *EventHandler) {
		processor := new(MockEventProcessor)
		reg := prometheus.NewRegistry()
		return processor, reg, NewEventHandler(newTestLogger(), processor, dlq, metrics.NewMetrics(reg))
	}

	t.Run("ValidEvent", func(t *testing.T) {
		processor, reg, handler := setup(new(MockDeadLetterPublisher))
		processor.On("ProcessEvent", ctx, mock.MatchedBy(func(e wallet.WalletEvent) bool {
			return e.EventID == "e1" && e.UserID == "42" && e.Source == shared.EventSourceWithdrawal
		})).Return(nil).Once()

		msg := kafka.Message{Key: []byte("42"), Value: []byte(`{"event_id":"e1","user_id":"42","source":"WITHDRAWAL","occurred_at":"2025-08-15T12:00:00Z"}`)}
		require.NoError(t, handler.HandleMessage(ctx, msg))
		processor.AssertExpectations(t)
		assert.Equal(t, float64(1), counterValue(reg, eventsTotal, "result", "processed"))
	})

	t.Run("MissingEventIDIsAssigned", func(t *testing.T) {
		processor, _, handler := setup(nil)
		processor.On("ProcessEvent", ctx, mock.MatchedBy(func(e wallet.WalletEvent) bool {
			return e.EventID != ""
		})).Return(nil).Once()

		require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: []byte(`{"user_id":"42","source":"LEDGER"}`)}))
		processor.AssertExpectations(t)
	})

	t.Run("ProcessorErrorIsNotCommitted", func(t *testing.T) {
		processor, reg, handler := setup(new(MockDeadLetterPublisher))
		processingErr := errors.New("redis down")
		processor.On("ProcessEvent", ctx, mock.Anything).Return(processingErr).Once()

		err := handler.HandleMessage(ctx, kafka.Message{Value: []byte(`{"event_id":"e1","user_id":"42","source":"UPI"}`)})
		assert.ErrorIs(t, err, processingErr)
		assert.Equal(t, float64(1), counterValue(reg, eventsTotal, "result", "failed"))
	})

	t.Run("UndecodableGoesToDLQ", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		processor, reg, handler := setup(dlq)
		value := []byte("not-json")
		dlq.On("PublishToDLQ", ctx, "42", value, mock.MatchedBy(func(reason string) bool {
			return strings.Contains(reason, "failed to decode wallet event")
		})).Return(nil).Once()

		require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Key: []byte("42"), Value: value}))
		dlq.AssertExpectations(t)
		processor.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything)
		assert.Equal(t, float64(1), counterValue(reg, eventsTotal, "result", "dead_lettered"))
	})

	t.Run("UnknownSourceGoesToDLQ", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		processor, _, handler := setup(dlq)
		dlq.On("PublishToDLQ", ctx, "", mock.Anything, `invalid wallet event: unknown source "PAYROLL"`).Return(nil).Once()

		require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: []byte(`{"user_id":"42","source":"payroll"}`)}))
		dlq.AssertExpectations(t)
		processor.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything)
	})

	t.Run("DLQFailureIsNotCommitted", func(t *testing.T) {
		dlq := new(MockDeadLetterPublisher)
		_, reg, handler := setup(dlq)
		dlq.On("PublishToDLQ", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka DLQ write error")).Once()

		err := handler.HandleMessage(ctx, kafka.Message{Value: []byte("not-json")})
		assert.ErrorContains(t, err, "failed to dead-letter wallet event")
		assert.Equal(t, float64(1), counterValue(reg, eventsTotal, "result", "failed"))
	})

	t.Run("DisabledDLQDropsMessage", func(t *testing.T) {
		var disabled *producers.DLQProducer
		processor, reg, handler := setup(disabled)

		require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: []byte("not-json")}))
		processor.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything)
		assert.Equal(t, float64(1), counterValue(reg, eventsTotal, "result", "failed"))
	})
}
