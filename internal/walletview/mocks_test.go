package walletview

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	rediscache "github.com/tournament-wallet-ledger/internal/data/redis"
	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type MockSources struct {
	mock.Mock
}

func (m *MockSources) FetchLedgerEntries(ctx context.Context, cred wallet.Credential) ([]ledger.Entry, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockSources) FetchUpiPayments(ctx context.Context, cred wallet.Credential) ([]wallet.UpiPayment, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.UpiPayment), args.Error(1)
}

func (m *MockSources) FetchWithdrawals(ctx context.Context, cred wallet.Credential) ([]wallet.Withdrawal, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Withdrawal), args.Error(1)
}

func (m *MockSources) FetchRegistrations(ctx context.Context, cred wallet.Credential) ([]wallet.Registration, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Registration), args.Error(1)
}

func (m *MockSources) asSources() wallet.Sources {
	return wallet.Sources{Ledger: m, UpiPayments: m, Withdrawals: m, Registrations: m}
}

type MockSnapshotFetcher struct {
	mock.Mock
}

func (m *MockSnapshotFetcher) Load(ctx context.Context, cred wallet.Credential) (wallet.Snapshot, error) {
	args := m.Called(ctx, cred)
	return args.Get(0).(wallet.Snapshot), args.Error(1)
}

type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) CurrentVersion(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewCache) Get(ctx context.Context, userID string) (*rediscache.CachedView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rediscache.CachedView), args.Error(1)
}

func (m *MockViewCache) StoreIfCurrent(ctx context.Context, userID string, version int64, result reconciliation.Result) (bool, error) {
	args := m.Called(ctx, userID, version, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewCache) Invalidate(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
