package shared

import (
	"fmt"
	"strings"
)

// Direction is the side of the wallet a transaction moves money on.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// ParseDirection maps a raw ledger type onto a Direction. Anything that is not a
// credit is treated as a debit; ok reports whether the raw value was recognised.
func ParseDirection(raw string) (d Direction, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(DirectionCredit):
		return DirectionCredit, true
	case string(DirectionDebit):
		return DirectionDebit, true
	default:
		return DirectionDebit, false
	}
}

// UpiStatus defines UPI top-up payment states
type UpiStatus string

const (
	UpiStatusInitiated    UpiStatus = "INITIATED"
	UpiStatusUtrSubmitted UpiStatus = "UTR_SUBMITTED"
	UpiStatusApproved     UpiStatus = "APPROVED"
	UpiStatusCredited     UpiStatus = "CREDITED"
	UpiStatusPaid         UpiStatus = "PAID"
	UpiStatusRejected     UpiStatus = "REJECTED"
)

// upiCreditedStatuses are distinct backend values that all mean the money reached the wallet.
var upiCreditedStatuses = map[UpiStatus]struct{}{
	UpiStatusApproved: {},
	UpiStatusCredited: {},
	UpiStatusPaid:     {},
}

// Normalize upper-cases and trims the status.
func (s UpiStatus) Normalize() UpiStatus {
	return UpiStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// IsCredited reports whether the payment reached a terminal success state.
func (s UpiStatus) IsCredited() bool {
	_, ok := upiCreditedStatuses[s.Normalize()]
	return ok
}

// IsShadowed reports whether the payment is still outside the ledger and should be
// shown as a placeholder entry.
func (s UpiStatus) IsShadowed() bool {
	n := s.Normalize()
	return n == UpiStatusUtrSubmitted || n == UpiStatusRejected
}

// WithdrawalStatus defines withdrawal request states
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusPaid     WithdrawalStatus = "PAID"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// Normalize upper-cases and trims the status.
func (s WithdrawalStatus) Normalize() WithdrawalStatus {
	return WithdrawalStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// CountsTowardsWithdrawn reports whether the amount has left, or is leaving, the wallet.
func (s WithdrawalStatus) CountsTowardsWithdrawn() bool {
	n := s.Normalize()
	return n == WithdrawalStatusPending || n == WithdrawalStatusPaid
}

// Label is the human readable form used in transaction descriptions.
// Unknown statuses read as rejected.
func (s WithdrawalStatus) Label() string {
	switch s.Normalize() {
	case WithdrawalStatusPending:
		return "Pending"
	case WithdrawalStatusPaid:
		return "Paid"
	default:
		return "Rejected"
	}
}

// WithdrawalMethod defines the payout rail of a withdrawal
type WithdrawalMethod string

const (
	WithdrawalMethodUPI  WithdrawalMethod = "UPI"
	WithdrawalMethodBank WithdrawalMethod = "BANK"
)

// MatchStatus defines tournament match states
type MatchStatus string

const (
	MatchStatusOpen      MatchStatus = "OPEN"
	MatchStatusUpcoming  MatchStatus = "UPCOMING"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// RefundStatus marks credits that return a rejected withdrawal.
type RefundStatus string

const RefundStatusRefunded RefundStatus = "REFUNDED"

// FilterMode selects a view of the merged feed
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterAdded       FilterMode = "added"
	FilterSpent       FilterMode = "spent"
	FilterWithdrawals FilterMode = "withdrawals"
)

// ParseFilterMode accepts the four view names case-insensitively. An empty value is "all".
func ParseFilterMode(raw string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return FilterAll, nil
	case FilterAll, FilterAdded, FilterSpent, FilterWithdrawals:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilterMode, raw)
	}
}

// WalletEventSource names the collection whose change triggered a recompute.
type WalletEventSource string

const (
	EventSourceLedger       WalletEventSource = "LEDGER"
	EventSourceUpi          WalletEventSource = "UPI"
	EventSourceWithdrawal   WalletEventSource = "WITHDRAWAL"
	EventSourceRegistration WalletEventSource = "REGISTRATION"
)

// Valid reports whether the source is one of the known collections.
func (s WalletEventSource) Valid() bool {
	switch s {
	case EventSourceLedger, EventSourceUpi, EventSourceWithdrawal, EventSourceRegistration:
		return true
	}
	return false
}
