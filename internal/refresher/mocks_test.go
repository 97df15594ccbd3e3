package refresher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

type MockEventProcessor struct {
	mock.Mock
}

func (m *MockEventProcessor) ProcessEvent(ctx context.Context, event wallet.WalletEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueService(userID string, ttl time.Duration) (wallet.Credential, error) {
	args := m.Called(userID, ttl)
	return args.Get(0).(wallet.Credential), args.Error(1)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context, cred wallet.Credential) (walletview.Refreshed, error) {
	args := m.Called(ctx, cred)
	return args.Get(0).(walletview.Refreshed), args.Error(1)
}

type MockSummaryPublisher struct {
	mock.Mock
}

func (m *MockSummaryPublisher) PublishSummary(ctx context.Context, event wallet.WalletSummaryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// counterValue reads a counter from reg; labelName may be empty for unlabeled counters.
func counterValue(reg *prometheus.Registry, name, labelName, labelValue string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if labelName == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == labelName && lp.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
