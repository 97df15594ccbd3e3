package refresher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/messaging/producers"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

// ProcessingService refreshes one user's view per event and publishes the summary.
type ProcessingService struct {
	issuer    TokenIssuer
	refresher walletview.Refresher
	publisher producers.SummaryPublisher
	tokenTTL  time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewProcessingService(
	logger *slog.Logger,
	issuer TokenIssuer,
	refresher walletview.Refresher,
	publisher producers.SummaryPublisher,
	tokenTTL time.Duration,
	m *metrics.Metrics,
) *ProcessingService {
	return &ProcessingService{
		issuer:    issuer,
		refresher: refresher,
		publisher: publisher,
		tokenTTL:  tokenTTL,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessEvent invalidates and recomputes the user's view. The summary is published
// only when the recomputed view was stored, so an overtaken refresh stays silent.
func (s *ProcessingService) ProcessEvent(ctx context.Context, event wallet.WalletEvent) error {
	logger := s.logger.With("correlation_id", event.EventID, "user_id", event.UserID, "source", event.Source)

	cred, err := s.issuer.IssueService(event.UserID, s.tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue service credential: %w", err)
	}

	refreshed, err := s.refresher.Refresh(ctx, cred)
	if err != nil {
		return fmt.Errorf("failed to refresh wallet view: %w", err)
	}

	if !refreshed.Stored {
		logger.Info("Refresh overtaken by a newer event, summary not published", "version", refreshed.Version)
		return nil
	}

	summary := newSummaryEvent(event.EventID, refreshed)
	if err := s.publisher.PublishSummary(ctx, summary); err != nil {
		return fmt.Errorf("failed to publish wallet summary: %w", err)
	}
	s.metrics.SummaryPublished()

	logger.Info("Wallet summary published",
		"version", refreshed.Version,
		"summary_id", summary.EventID,
		"transaction_count", summary.TransactionCount,
	)
	return nil
}

func newSummaryEvent(causationID string, refreshed walletview.Refreshed) wallet.WalletSummaryEvent {
	result := refreshed.Result
	summary := wallet.WalletSummaryEvent{
		EventID:          uuid.NewString(),
		CausationID:      causationID,
		UserID:           refreshed.UserID,
		Version:          refreshed.Version,
		TotalAdded:       result.Totals.TotalAdded.StringFixed(2),
		TotalSpent:       result.Totals.TotalSpent.StringFixed(2),
		Profit:           result.Totals.Profit.StringFixed(2),
		WithdrawTotal:    result.Totals.WithdrawTotal.StringFixed(2),
		TransactionCount: result.TransactionCount,
		MalformedRecords: result.Malformed,
		ComputedAt:       result.AsOf.UTC(),
	}
	if result.Balance != nil {
		summary.Balance = result.Balance.StringFixed(2)
	}
	return summary
}
