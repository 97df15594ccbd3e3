// Package wallet holds the out-of-band records that are reconciled against the
// ledger and the collaborator contracts that provide them.
package wallet

import (
	"strings"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

// UpiPayment is a UPI top-up request as tracked by the payment service.
type UpiPayment struct {
	ID          string           `json:"id" yaml:"id"`
	Amount      string           `json:"amount" yaml:"amount"`
	UpiID       string           `json:"upiId,omitempty" yaml:"upiId"`
	Status      shared.UpiStatus `json:"status" yaml:"status"`
	UTR         string           `json:"utr,omitempty" yaml:"utr"`
	PaymentApp  string           `json:"paymentApp,omitempty" yaml:"paymentApp"`
	ReferenceID string           `json:"referenceId,omitempty" yaml:"referenceId"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// Withdrawal is a payout request. Bank fields are only set for BANK withdrawals.
type Withdrawal struct {
	ID                string                  `json:"id" yaml:"id"`
	Amount            string                  `json:"amount" yaml:"amount"`
	Status            shared.WithdrawalStatus `json:"status" yaml:"status"`
	Method            shared.WithdrawalMethod `json:"method" yaml:"method"`
	UpiID             string                  `json:"upiId,omitempty" yaml:"upiId"`
	AccountNumber     string                  `json:"accountNumber,omitempty" yaml:"accountNumber"`
	IfscCode          string                  `json:"ifscCode,omitempty" yaml:"ifscCode"`
	AccountHolderName string                  `json:"accountHolderName,omitempty" yaml:"accountHolderName"`
	ReferenceID       string                  `json:"referenceId,omitempty" yaml:"referenceId"`
	CreatedAt         *time.Time              `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt         *time.Time              `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// Key is the correlation key the withdrawal is posted under in the ledger.
func (w Withdrawal) Key() string {
	return shared.WithdrawalKey(w.ReferenceID, w.ID)
}

// Match is the tournament a registration belongs to.
type Match struct {
	ID          string             `json:"id" yaml:"id"`
	Title       string             `json:"title" yaml:"title"`
	Status      shared.MatchStatus `json:"status" yaml:"status"`
	EntryFee    string             `json:"entryFee,omitempty" yaml:"entryFee"`
	ScheduledAt *time.Time         `json:"scheduledAt,omitempty" yaml:"scheduledAt"`
}

// Registration is a user's entry into a match.
type Registration struct {
	ID         string `json:"id" yaml:"id"`
	Status     string `json:"status,omitempty" yaml:"status"`
	MatchTitle string `json:"matchTitle,omitempty" yaml:"matchTitle"`
	AmountPaid string `json:"amountPaid,omitempty" yaml:"amountPaid"`
	Match      *Match `json:"match,omitempty" yaml:"match"`
}

// EffectiveStatus prefers the match status and falls back to the registration's own.
func (r Registration) EffectiveStatus() shared.MatchStatus {
	raw := ""
	if r.Match != nil {
		raw = string(r.Match.Status)
	}
	if strings.TrimSpace(raw) == "" {
		raw = r.Status
	}
	return shared.MatchStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// EffectiveTitle prefers the match title and falls back to the denormalized matchTitle.
func (r Registration) EffectiveTitle() string {
	if r.Match != nil {
		if t := strings.TrimSpace(r.Match.Title); t != "" {
			return t
		}
	}
	return strings.TrimSpace(r.MatchTitle)
}

// EntryFee is the linked match's fee, empty when there is no match.
func (r Registration) EntryFee() string {
	if r.Match == nil {
		return ""
	}
	return r.Match.EntryFee
}

// Snapshot is the four collections fetched for one user at one point in time.
type Snapshot struct {
	Ledger        []ledger.Entry `json:"ledger" yaml:"ledger"`
	UpiPayments   []UpiPayment   `json:"upiPayments" yaml:"upiPayments"`
	Withdrawals   []Withdrawal   `json:"withdrawals" yaml:"withdrawals"`
	Registrations []Registration `json:"registrations" yaml:"registrations"`
}
