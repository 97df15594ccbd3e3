// Package refresher recomputes wallet views when a wallet event reports changed inputs
// and publishes the resulting summaries.
package refresher

import (
	"context"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// EventProcessor handles one decoded wallet event.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event wallet.WalletEvent) error
}

// TokenIssuer mints the credential the refresher loads a user's records with.
type TokenIssuer interface {
	IssueService(userID string, ttl time.Duration) (wallet.Credential, error)
}
