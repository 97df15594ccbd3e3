package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

// MergedTransaction is one row of the reconciled feed: a real ledger entry with its
// annotations, or a synthesized placeholder for a pending or rejected record.
type MergedTransaction struct {
	ID           string                 `json:"id"`
	Type         shared.Direction       `json:"type"`
	Amount       decimal.Decimal        `json:"amount"`
	Description  string                 `json:"description"`
	ReferenceID  string                 `json:"referenceId,omitempty"`
	Kind         shared.CorrelationKind `json:"kind"`
	BalanceAfter *decimal.Decimal       `json:"balanceAfter,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	Synthetic    bool                   `json:"synthetic"`

	UpiStatus        shared.UpiStatus        `json:"upiStatus,omitempty"`
	WithdrawalStatus shared.WithdrawalStatus `json:"withdrawalStatus,omitempty"`
	RefundStatus     shared.RefundStatus     `json:"refundStatus,omitempty"`
}

func (t MergedTransaction) IsCredit() bool { return t.Type == shared.DirectionCredit }
func (t MergedTransaction) IsDebit() bool  { return t.Type == shared.DirectionDebit }

// CreditClass is the mutually exclusive bucket a credit is counted in.
type CreditClass string

const (
	CreditAddMoney     CreditClass = "ADD_MONEY"
	CreditRefund       CreditClass = "REFUND"
	CreditPrize        CreditClass = "PRIZE"
	CreditUnclassified CreditClass = "UNCLASSIFIED"
)

// ClassifyCredit places a credit in exactly one class. Refund and prize keys win over
// an add-money looking description. Debits are always unclassified.
func ClassifyCredit(tx MergedTransaction) CreditClass {
	if !tx.IsCredit() {
		return CreditUnclassified
	}
	switch {
	case tx.Kind.IsRefund():
		return CreditRefund
	case tx.Kind == shared.KindPrize:
		return CreditPrize
	case tx.Kind == shared.KindUpiTopUp:
		return CreditAddMoney
	case isAddMoneyDescription(tx.Description):
		return CreditAddMoney
	default:
		return CreditUnclassified
	}
}

// Totals are the derived wallet figures.
type Totals struct {
	TotalAdded    decimal.Decimal `json:"totalAdded"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	Profit        decimal.Decimal `json:"profit"`
	WithdrawTotal decimal.Decimal `json:"withdrawTotal"`
}

// Equal compares totals numerically.
func (t Totals) Equal(o Totals) bool {
	return t.TotalAdded.Equal(o.TotalAdded) &&
		t.TotalSpent.Equal(o.TotalSpent) &&
		t.Profit.Equal(o.Profit) &&
		t.WithdrawTotal.Equal(o.WithdrawTotal)
}
