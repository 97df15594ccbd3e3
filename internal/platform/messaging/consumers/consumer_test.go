package consumers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournament-wallet-ledger/internal/config"
)

type fetchResult struct {
	msg kafka.Message
	err error
}

// fakeReader replays queued results, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	results   []fetchResult
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.results) > 0 {
		next := r.results[0]
		r.results = r.results[1:]
		r.mu.Unlock()
		return next.msg, next.err
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.committed))
	for _, m := range r.committed {
		keys = append(keys, string(m.Key))
	}
	return keys
}

func newTestConsumer(reader KafkaReader) *KafkaConsumer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	c := newKafkaConsumer(logger, reader, "wallet_events", "wallet-refresher")
	c.retryDelay = time.Millisecond
	return c
}

func message(key string) fetchResult {
	return fetchResult{msg: kafka.Message{Key: []byte(key), Value: []byte(`{}`)}}
}

// consumeUntil runs Consume until done reports true, then cancels and waits for it to return.
func consumeUntil(t *testing.T, c *KafkaConsumer, handler MessageHandler, done func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- c.Consume(ctx, handler) }()

	require.Eventually(t, done, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestKafkaConsumer_Consume(t *testing.T) {
	t.Run("CommitsHandledMessages", func(t *testing.T) {
		reader := &fakeReader{results: []fetchResult{message("u1"), message("u2")}}
		c := newTestConsumer(reader)

		consumeUntil(t, c, func(context.Context, kafka.Message) error { return nil }, func() bool {
			return len(reader.committedKeys()) == 2
		})
		assert.Equal(t, []string{"u1", "u2"}, reader.committedKeys())
	})

	t.Run("HandlerErrorSkipsCommit", func(t *testing.T) {
		reader := &fakeReader{results: []fetchResult{message("bad"), message("good")}}
		c := newTestConsumer(reader)

		var mu sync.Mutex
		var handled []string
		handler := func(_ context.Context, msg kafka.Message) error {
			mu.Lock()
			handled = append(handled, string(msg.Key))
			mu.Unlock()
			if string(msg.Key) == "bad" {
				return errors.New("redis down")
			}
			return nil
		}

		consumeUntil(t, c, handler, func() bool {
			return len(reader.committedKeys()) == 1
		})
		assert.Equal(t, []string{"good"}, reader.committedKeys())
		mu.Lock()
		assert.Equal(t, []string{"bad", "good"}, handled)
		mu.Unlock()
	})

	t.Run("FetchErrorIsRetried", func(t *testing.T) {
		reader := &fakeReader{results: []fetchResult{{err: errors.New("broker not available")}, message("u1")}}
		c := newTestConsumer(reader)

		consumeUntil(t, c, func(context.Context, kafka.Message) error { return nil }, func() bool {
			return len(reader.committedKeys()) == 1
		})
	})

	t.Run("ClosedReaderStops", func(t *testing.T) {
		reader := &fakeReader{results: []fetchResult{{err: io.EOF}}}
		c := newTestConsumer(reader)

		err := c.Consume(context.Background(), func(context.Context, kafka.Message) error {
			t.Fatal("handler must not run")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		reader := &fakeReader{results: []fetchResult{message("u1")}}
		c := newTestConsumer(reader)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, c.Consume(ctx, func(context.Context, kafka.Message) error { return nil }))
		assert.Empty(t, reader.committedKeys())
	})
}

func TestKafkaConsumer_RequiresHandler(t *testing.T) {
	reader := &fakeReader{results: []fetchResult{message("u1")}}
	c := newTestConsumer(reader)

	assert.Error(t, c.Consume(context.Background(), nil))
	assert.Empty(t, reader.committedKeys(), "nothing is fetched without a handler")
}

func TestNewKafkaConsumer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := &config.KafkaConfig{
		Brokers:           "localhost:9092",
		WalletEventsTopic: "wallet_events",
		ConsumerGroup:     "wallet-refresher",
		MinBytes:          1024,
		MaxBytes:          10240,
		MaxWait:           time.Second,
	}

	consumer := NewKafkaConsumer(logger, cfg)
	require.NotNil(t, consumer)
	require.NotNil(t, consumer.reader, "Kafka reader should be initialized")
	assert.Equal(t, "wallet_events", consumer.topic)
	assert.NoError(t, consumer.Close())
}

func TestStartOffset(t *testing.T) {
	assert.Equal(t, kafka.FirstOffset, startOffset(0))
	assert.Equal(t, kafka.LastOffset, startOffset(kafka.LastOffset))
}

func TestKafkaConsumer_Close(t *testing.T) {
	t.Run("CloseWithNilReader", func(t *testing.T) {
		consumer := &KafkaConsumer{reader: nil}
		require.NoError(t, consumer.Close(), "Close should return nil if reader is nil")
	})

	t.Run("ClosesReader", func(t *testing.T) {
		reader := &fakeReader{}
		require.NoError(t, newTestConsumer(reader).Close())
		assert.True(t, reader.closed)
	})
}
