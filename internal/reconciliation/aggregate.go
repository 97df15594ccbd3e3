package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

type completedRegistration struct {
	key        string
	amountPaid decimal.Decimal
	entryFee   decimal.Decimal
}

// completedRegistrations keeps registrations whose match is COMPLETED and has a usable
// title, in input order.
func completedRegistrations(regs []wallet.Registration) ([]completedRegistration, int) {
	var out []completedRegistration
	malformed := 0

	for _, r := range regs {
		if r.EffectiveStatus() != shared.MatchStatusCompleted {
			continue
		}
		key := NormalizeTitle(r.EffectiveTitle())
		if key == "" {
			malformed++
			continue
		}
		paid, paidOK := parseFallbackAmount(r.AmountPaid)
		fee, feeOK := parseFallbackAmount(r.EntryFee())
		if !paidOK || !feeOK {
			malformed++
		}
		out = append(out, completedRegistration{key: key, amountPaid: paid, entryFee: fee})
	}
	return out, malformed
}

func completedTitleKeys(regs []completedRegistration) []string {
	seen := make(map[string]struct{}, len(regs))
	keys := make([]string, 0, len(regs))
	for _, r := range regs {
		if _, dup := seen[r.key]; dup {
			continue
		}
		seen[r.key] = struct{}{}
		keys = append(keys, r.key)
	}
	return keys
}

// refundedTitleKeys collects normalized titles named by match refund credits.
func refundedTitleKeys(posted []MergedTransaction) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, t := range posted {
		if !t.IsCredit() || t.Kind != shared.KindMatchRefund {
			continue
		}
		if key := NormalizeTitle(RefundedTitle(t.Description)); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// debitBuckets queues tournament entry debit amounts per normalized title, in feed order.
func debitBuckets(posted []MergedTransaction) map[string][]decimal.Decimal {
	buckets := make(map[string][]decimal.Decimal)
	for _, t := range posted {
		if !t.IsDebit() || t.Kind != shared.KindTournamentEntry {
			continue
		}
		key := NormalizeTitle(ExtractTournamentTitle(t.Description))
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], t.Amount)
	}
	return buckets
}

// totalSpent charges each completed, non-refunded registration once. A matching debit
// is consumed first-in first-out; without one the amount paid, then the entry fee,
// stands in.
func totalSpent(posted []MergedTransaction, completed []completedRegistration) decimal.Decimal {
	refunded := refundedTitleKeys(posted)
	buckets := debitBuckets(posted)

	sum := decimal.Zero
	for _, reg := range completed {
		if _, skip := refunded[reg.key]; skip {
			continue
		}
		switch bucket := buckets[reg.key]; {
		case len(bucket) > 0:
			sum = sum.Add(bucket[0])
			buckets[reg.key] = bucket[1:]
		case reg.amountPaid.IsPositive():
			sum = sum.Add(reg.amountPaid)
		case reg.entryFee.IsPositive():
			sum = sum.Add(reg.entryFee)
		}
	}
	return sum
}

// withdrawTotal sums pending and paid withdrawal requests.
func withdrawTotal(withdrawals []wallet.Withdrawal) decimal.Decimal {
	sum := decimal.Zero
	for _, w := range withdrawals {
		if !w.Status.CountsTowardsWithdrawn() {
			continue
		}
		amount, _ := ParseAmount(w.Amount)
		sum = sum.Add(amount)
	}
	return sum
}

// computeTotals derives the figures from posted ledger entries only; placeholders for
// unverified top-ups must not count as money added.
func computeTotals(posted []MergedTransaction, withdrawals []wallet.Withdrawal, completed []completedRegistration) Totals {
	totals := Totals{
		TotalAdded:    decimal.Zero,
		Profit:        decimal.Zero,
		TotalSpent:    totalSpent(posted, completed),
		WithdrawTotal: withdrawTotal(withdrawals),
	}
	for _, t := range posted {
		switch ClassifyCredit(t) {
		case CreditAddMoney:
			totals.TotalAdded = totals.TotalAdded.Add(t.Amount)
		case CreditPrize:
			totals.Profit = totals.Profit.Add(t.Amount)
		}
	}
	return totals
}
