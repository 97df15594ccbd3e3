package refresher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

func TestWorkerPoolProcessingService_ProcessEvent(t *testing.T) {
	ctx := context.Background()
	event := wallet.WalletEvent{EventID: "e1", UserID: "42", Source: shared.EventSourceLedger}

	newService := func(t *testing.T, base EventProcessor) *WorkerPoolProcessingService {
		t.Helper()
		svc, err := NewWorkerPoolProcessingService(base, WorkerPoolConfig{Size: 2}, newTestLogger())
		require.NoError(t, err)
		t.Cleanup(svc.Shutdown)
		return svc
	}

	t.Run("SuccessfulProcessing", func(t *testing.T) {
		base := new(MockEventProcessor)
		base.On("ProcessEvent", mock.Anything, event).Return(nil).Once()

		svc := newService(t, base)
		assert.NoError(t, svc.ProcessEvent(ctx, event))
		assert.Equal(t, 2, svc.Capacity())
		base.AssertExpectations(t)
	})

	t.Run("ProcessingError", func(t *testing.T) {
		base := new(MockEventProcessor)
		processingErr := errors.New("processing error")
		base.On("ProcessEvent", mock.Anything, event).Return(processingErr).Once()

		assert.ErrorIs(t, newService(t, base).ProcessEvent(ctx, event), processingErr)
	})

	t.Run("WorkerPanicIsReturned", func(t *testing.T) {
		base := new(MockEventProcessor)
		base.On("ProcessEvent", mock.Anything, event).Run(func(mock.Arguments) { panic("boom") }).Return(nil).Once()

		err := newService(t, base).ProcessEvent(ctx, event)
		assert.ErrorContains(t, err, "panicked: boom")
	})

	t.Run("ReleasedPool", func(t *testing.T) {
		base := new(MockEventProcessor)
		svc := newService(t, base)
		svc.Shutdown()

		assert.ErrorIs(t, svc.ProcessEvent(ctx, event), ants.ErrPoolClosed)
		base.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		base := new(MockEventProcessor)
		release := make(chan struct{})
		base.On("ProcessEvent", mock.Anything, event).Run(func(mock.Arguments) { <-release }).Return(nil).Once()
		defer close(release)

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, newService(t, base).ProcessEvent(waitCtx, event), context.DeadlineExceeded)
	})
}
