package ledger

import "time"

// Entry is a wallet transaction as posted by the backend ledger. Fields keep the
// backend's loose typing: Amount is textual and may be empty, Type may hold values
// other than CREDIT/DEBIT. Normalization happens during reconciliation.
type Entry struct {
	ID           string     `json:"id" yaml:"id"`
	Type         string     `json:"type" yaml:"type"`
	Amount       string     `json:"amount" yaml:"amount"`
	Description  string     `json:"description,omitempty" yaml:"description"`
	ReferenceID  string     `json:"referenceId,omitempty" yaml:"referenceId"`
	BalanceAfter string     `json:"balanceAfter,omitempty" yaml:"balanceAfter"`
	CreatedAt    *time.Time `json:"createdAt,omitempty" yaml:"createdAt"`
}
