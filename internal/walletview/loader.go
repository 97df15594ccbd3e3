package walletview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
)

// SnapshotLoader fetches the four collections concurrently on a shared ants pool.
type SnapshotLoader struct {
	sources wallet.Sources
	pool    *ants.Pool
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewSnapshotLoader creates a loader. timeout bounds each source fetch separately.
func NewSnapshotLoader(logger *slog.Logger, sources wallet.Sources, pool *ants.Pool, timeout time.Duration, m *metrics.Metrics) *SnapshotLoader {
	return &SnapshotLoader{
		sources: sources,
		pool:    pool,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

type sourceFetch struct {
	name string
	run  func(ctx context.Context) error
}

// Load fetches a snapshot. ErrUnauthorized from any source aborts the load; every
// other failure degrades that collection to empty.
func (l *SnapshotLoader) Load(ctx context.Context, cred wallet.Credential) (wallet.Snapshot, error) {
	snap := wallet.Snapshot{
		Ledger:        []ledger.Entry{},
		UpiPayments:   []wallet.UpiPayment{},
		Withdrawals:   []wallet.Withdrawal{},
		Registrations: []wallet.Registration{},
	}
	if cred.IsZero() {
		return snap, nil
	}

	// each fetch owns one field of snap
	fetches := []sourceFetch{
		{wallet.SourceLedger, func(ctx context.Context) error {
			entries, err := l.sources.Ledger.FetchLedgerEntries(ctx, cred)
			if err == nil {
				snap.Ledger = entries
			}
			return err
		}},
		{wallet.SourceUpiPayments, func(ctx context.Context) error {
			payments, err := l.sources.UpiPayments.FetchUpiPayments(ctx, cred)
			if err == nil {
				snap.UpiPayments = payments
			}
			return err
		}},
		{wallet.SourceWithdrawals, func(ctx context.Context) error {
			withdrawals, err := l.sources.Withdrawals.FetchWithdrawals(ctx, cred)
			if err == nil {
				snap.Withdrawals = withdrawals
			}
			return err
		}},
		{wallet.SourceRegistrations, func(ctx context.Context) error {
			registrations, err := l.sources.Registrations.FetchRegistrations(ctx, cred)
			if err == nil {
				snap.Registrations = registrations
			}
			return err
		}},
	}

	errs := make([]error, len(fetches))
	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		if err := l.pool.Submit(func() {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, l.timeout)
			defer cancel()
			errs[i] = f.run(fctx)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		name := fetches[i].name
		if errors.Is(err, shared.ErrUnauthorized) {
			l.logger.Warn("Source rejected credential", "source", name, "user_id", cred.Subject)
			return wallet.Snapshot{}, wallet.ErrSourceFailed{Source: name, Err: err}
		}
		l.logger.Warn("Source unavailable, treating collection as empty",
			"source", name,
			"user_id", cred.Subject,
			"error", err,
		)
		l.metrics.SourceDegraded(name)
	}

	// sources may return nil for an empty collection
	if snap.Ledger == nil {
		snap.Ledger = []ledger.Entry{}
	}
	if snap.UpiPayments == nil {
		snap.UpiPayments = []wallet.UpiPayment{}
	}
	if snap.Withdrawals == nil {
		snap.Withdrawals = []wallet.Withdrawal{}
	}
	if snap.Registrations == nil {
		snap.Registrations = []wallet.Registration{}
	}
	return snap, nil
}
