package wallet

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

// WalletEvent signals that one of a user's input collections changed.
type WalletEvent struct {
	EventID    string                   `json:"event_id"`
	UserID     string                   `json:"user_id"`
	Source     shared.WalletEventSource `json:"source"`
	OccurredAt time.Time                `json:"occurred_at"`
}

// ErrInvalidEvent is returned for events that decode but cannot be processed.
type ErrInvalidEvent struct {
	Reason string
}

func (e ErrInvalidEvent) Error() string {
	return fmt.Sprintf("invalid wallet event: %s", e.Reason)
}

// ParseWalletEvent decodes and validates an event payload.
func ParseWalletEvent(data []byte) (WalletEvent, error) {
	var event WalletEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return WalletEvent{}, fmt.Errorf("failed to decode wallet event: %w", err)
	}
	event.UserID = strings.TrimSpace(event.UserID)
	event.Source = shared.WalletEventSource(strings.ToUpper(strings.TrimSpace(string(event.Source))))
	if err := event.Validate(); err != nil {
		return WalletEvent{}, err
	}
	return event, nil
}

// Validate checks the fields the refresher relies on.
func (e WalletEvent) Validate() error {
	if e.UserID == "" {
		return ErrInvalidEvent{Reason: "user_id is required"}
	}
	if !e.Source.Valid() {
		return ErrInvalidEvent{Reason: fmt.Sprintf("unknown source %q", e.Source)}
	}
	return nil
}

// WalletSummaryEvent is published after a recomputed view was stored.
// Amounts are fixed two-decimal strings.
type WalletSummaryEvent struct {
	EventID          string    `json:"event_id"`
	CausationID      string    `json:"causation_id,omitempty"`
	UserID           string    `json:"user_id"`
	Version          int64     `json:"version"`
	TotalAdded       string    `json:"total_added"`
	TotalSpent       string    `json:"total_spent"`
	Profit           string    `json:"profit"`
	WithdrawTotal    string    `json:"withdraw_total"`
	Balance          string    `json:"balance,omitempty"`
	TransactionCount int       `json:"transaction_count"`
	MalformedRecords int       `json:"malformed_records"`
	ComputedAt       time.Time `json:"computed_at"`
}
