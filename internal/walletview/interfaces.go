// Package walletview loads a user's collaborator records, reconciles them and keeps
// the result in the versioned view cache.
package walletview

import (
	"context"

	rediscache "github.com/tournament-wallet-ledger/internal/data/redis"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

// Viewer serves the reconciled view to readers.
type Viewer interface {
	// GetView returns the cached view or computes it. A zero credential yields the
	// empty view; a credential without subject returns shared.ErrUnauthorized.
	GetView(ctx context.Context, cred wallet.Credential) (*reconciliation.Result, error)
}

// Refresher recomputes a view after its inputs changed.
type Refresher interface {
	// Refresh invalidates the cached view and recomputes it. Stored is false when a
	// newer invalidation overtook this computation.
	Refresh(ctx context.Context, cred wallet.Credential) (Refreshed, error)
}

// SnapshotFetcher loads the four collections for one credential.
type SnapshotFetcher interface {
	Load(ctx context.Context, cred wallet.Credential) (wallet.Snapshot, error)
}

// ViewCache is the versioned cache the service writes through.
type ViewCache interface {
	CurrentVersion(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID string) (*rediscache.CachedView, error)
	StoreIfCurrent(ctx context.Context, userID string, version int64, result reconciliation.Result) (bool, error)
	Invalidate(ctx context.Context, userID string) (int64, error)
}

// Refreshed is the outcome of one Refresh.
type Refreshed struct {
	UserID  string
	Version int64
	Stored  bool
	Result  reconciliation.Result
}

var (
	_ ViewCache       = (*rediscache.ViewCache)(nil)
	_ SnapshotFetcher = (*SnapshotLoader)(nil)
	_ Viewer          = (*Service)(nil)
	_ Refresher       = (*Service)(nil)
)
