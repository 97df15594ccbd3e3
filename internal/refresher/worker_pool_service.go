package refresher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// WorkerPoolProcessingService runs events on a bounded ants pool and waits for the result.
type WorkerPoolProcessingService struct {
	baseService EventProcessor
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService EventProcessor,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessEvent submits the event to the pool. A panic in the worker is returned as an error.
func (s *WorkerPoolProcessingService) ProcessEvent(ctx context.Context, event wallet.WalletEvent) error {
	logger := s.logger.With("correlation_id", event.EventID)
	logger.Debug("Submitting wallet event to worker pool", "user_id", event.UserID)

	resultChan := make(chan error, 1)
	err := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- fmt.Errorf("wallet event worker panicked: %v", r)
			}
		}()
		resultChan <- s.baseService.ProcessEvent(ctx, event)
	})
	if err != nil {
		logger.Error("Failed to submit wallet event to worker pool", "user_id", event.UserID, "error", err)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
