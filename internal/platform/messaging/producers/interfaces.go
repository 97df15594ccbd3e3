package producers

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// MessagePublisher handles publishing messages to a primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// SummaryPublisher publishes recomputed wallet summaries
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, event wallet.WalletSummaryEvent) error
}

// DeadLetterPublisher handles publishing messages to a Dead Letter Queue
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ MessagePublisher    = (*SummaryProducer)(nil)
	_ SummaryPublisher    = (*SummaryProducer)(nil)
	_ DeadLetterPublisher = (*DLQProducer)(nil)
)
