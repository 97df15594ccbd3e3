package walletview

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/metrics"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

// ErrNotSignedIn is returned by Refresh for a zero credential.
var ErrNotSignedIn = errors.New("refresh requires a signed in credential")

// Service implements Viewer and Refresher
type Service struct {
	loader  SnapshotFetcher
	cache   ViewCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates the view service. cache may be nil, in which case every call
// reconciles a fresh snapshot.
func NewService(logger *slog.Logger, loader SnapshotFetcher, cache ViewCache, m *metrics.Metrics) *Service {
	return &Service{
		loader:  loader,
		cache:   cache,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GetView returns the user's reconciled view.
func (s *Service) GetView(ctx context.Context, cred wallet.Credential) (*reconciliation.Result, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil {
		return nil, err
	}
	if !signedIn {
		result := reconciliation.Reconcile(reconciliation.Inputs{AsOf: s.now()})
		return &result, nil
	}

	if s.cache != nil {
		view, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("View cache unavailable, reconciling without it", "user_id", userID, "error", err)
			return s.reconcile(ctx, cred, userID, false)
		}
		s.metrics.CacheLookup(view != nil)
		if view != nil {
			return &view.Result, nil
		}
	}

	return s.reconcile(ctx, cred, userID, s.cache != nil)
}

// reconcile computes a view and, when cacheable, stores it under the version read
// before loading. A computation overtaken by an invalidation is discarded and
// recomputed once; the second result is served even if it is overtaken again.
func (s *Service) reconcile(ctx context.Context, cred wallet.Credential, userID string, cacheable bool) (*reconciliation.Result, error) {
	const attempts = 2

	var result reconciliation.Result
	for attempt := 1; attempt <= attempts; attempt++ {
		var version int64
		if cacheable {
			v, err := s.cache.CurrentVersion(ctx, userID)
			if err != nil {
				s.logger.Warn("Failed to read view version, skipping cache write", "user_id", userID, "error", err)
				cacheable = false
			}
			version = v
		}

		var err error
		result, err = s.compute(ctx, cred, userID)
		if err != nil {
			return nil, err
		}
		if !cacheable {
			return &result, nil
		}

		stored, err := s.cache.StoreIfCurrent(ctx, userID, version, result)
		if err != nil {
			s.logger.Warn("Failed to cache view", "user_id", userID, "version", version, "error", err)
			return &result, nil
		}
		if stored {
			return &result, nil
		}

		s.metrics.StaleDiscarded()
		s.logger.Info("Inputs changed during reconciliation, discarding result",
			"user_id", userID,
			"version", version,
			"attempt", attempt,
		)
	}
	return &result, nil
}

// Refresh invalidates the user's view, recomputes it and stores it unless a newer
// invalidation happened meanwhile.
func (s *Service) Refresh(ctx context.Context, cred wallet.Credential) (Refreshed, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil {
		return Refreshed{}, err
	}
	if !signedIn {
		return Refreshed{}, ErrNotSignedIn
	}

	refreshed := Refreshed{UserID: userID}
	if s.cache != nil {
		refreshed.Version, err = s.cache.Invalidate(ctx, userID)
		if err != nil {
			return Refreshed{}, err
		}
	}

	refreshed.Result, err = s.compute(ctx, cred, userID)
	if err != nil {
		return Refreshed{}, err
	}
	if s.cache == nil {
		refreshed.Stored = true
		return refreshed, nil
	}

	refreshed.Stored, err = s.cache.StoreIfCurrent(ctx, userID, refreshed.Version, refreshed.Result)
	if err != nil {
		return Refreshed{}, err
	}
	if !refreshed.Stored {
		s.metrics.StaleDiscarded()
		s.logger.Info("Refresh overtaken by a newer change", "user_id", userID, "version", refreshed.Version)
	}
	return refreshed, nil
}

func (s *Service) compute(ctx context.Context, cred wallet.Credential, userID string) (reconciliation.Result, error) {
	started := time.Now()
	snap, err := s.loader.Load(ctx, cred)
	if err != nil {
		s.metrics.ObserveReconciliation(started, 0, err)
		s.logger.Error("Failed to load wallet snapshot", "user_id", userID, "error", err)
		return reconciliation.Result{}, err
	}

	result := reconciliation.Reconcile(reconciliation.InputsFromSnapshot(snap, s.now()))
	s.metrics.ObserveReconciliation(started, result.Malformed, nil)
	if result.Malformed > 0 {
		s.logger.Warn("Coerced malformed wallet records",
			"user_id", userID,
			"malformed", result.Malformed,
			"error", shared.ErrMalformedRecord,
		)
	}
	s.logger.Debug("Wallet reconciled",
		"user_id", userID,
		"feed_size", len(result.Feed),
		"duration", time.Since(started),
	)
	return result, nil
}
