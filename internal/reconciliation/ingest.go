package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

// ingestLedger normalizes raw entries in input order. Nothing is dropped; unreadable
// fields are coerced and counted.
func ingestLedger(entries []ledger.Entry, asOf time.Time) ([]MergedTransaction, int) {
	out := make([]MergedTransaction, 0, len(entries))
	malformed := 0

	for _, e := range entries {
		bad := false

		direction, ok := shared.ParseDirection(e.Type)
		if !ok {
			bad = true
		}

		amount, ok := ParseAmount(e.Amount)
		if !ok {
			bad = true
		}

		var balance *decimal.Decimal
		if strings.TrimSpace(e.BalanceAfter) != "" {
			if b, err := decimal.NewFromString(strings.TrimSpace(e.BalanceAfter)); err == nil {
				balance = &b
			} else {
				bad = true
			}
		}

		createdAt, ok := firstTime(asOf, e.CreatedAt)
		if !ok {
			bad = true
		}

		ref := strings.TrimSpace(e.ReferenceID)
		out = append(out, MergedTransaction{
			ID:           e.ID,
			Type:         direction,
			Amount:       amount,
			Description:  e.Description,
			ReferenceID:  ref,
			Kind:         shared.ClassifyCorrelationKey(ref),
			BalanceAfter: balance,
			CreatedAt:    createdAt,
		})
		if bad {
			malformed++
		}
	}

	return out, malformed
}

// firstTime returns the first non-zero timestamp, or fallback.
func firstTime(fallback time.Time, candidates ...*time.Time) (time.Time, bool) {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			return *c, true
		}
	}
	return fallback, false
}
