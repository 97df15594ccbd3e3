// Package reconciliation merges a user's ledger with the UPI payment, withdrawal and
// registration records into one classified feed and derives the wallet totals.
//
// Every function is a pure computation over its inputs. Callers fetch the snapshot,
// call Reconcile and discard results of superseded fetches themselves.
package reconciliation

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// Inputs is one snapshot of the four collections. AsOf stands in for missing
// timestamps; leave it zero to use the current time.
type Inputs struct {
	Ledger        []ledger.Entry
	UpiPayments   []wallet.UpiPayment
	Withdrawals   []wallet.Withdrawal
	Registrations []wallet.Registration
	AsOf          time.Time
}

// InputsFromSnapshot adapts a fetched snapshot.
func InputsFromSnapshot(s wallet.Snapshot, asOf time.Time) Inputs {
	return Inputs{
		Ledger:        s.Ledger,
		UpiPayments:   s.UpiPayments,
		Withdrawals:   s.Withdrawals,
		Registrations: s.Registrations,
		AsOf:          asOf,
	}
}

// Result is the complete derived view.
type Result struct {
	Feed   []MergedTransaction `json:"feed"`
	Totals Totals              `json:"totals"`
	// Balance is the balanceAfter of the newest posted entry that carries one.
	Balance          *decimal.Decimal `json:"balance,omitempty"`
	TransactionCount int              `json:"transactionCount"`
	// Malformed counts records that were coerced to safe defaults.
	Malformed          int       `json:"malformed"`
	CompletedTitleKeys []string  `json:"completedTitleKeys"`
	AsOf               time.Time `json:"asOf"`
}

// Filter returns the requested view of the feed.
func (r Result) Filter(mode shared.FilterMode) []MergedTransaction {
	return filterWithKeys(r.Feed, mode, r.CompletedTitleKeys)
}

// Reconcile runs ingestion, shadow synthesis, annotation and aggregation in one pass.
func Reconcile(in Inputs) Result {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	posted, malformed := ingestLedger(in.Ledger, asOf)

	upiShadows, n := synthesizeUpiShadows(in.UpiPayments, asOf)
	malformed += n
	wdShadows, n := synthesizeWithdrawalShadows(in.Withdrawals, asOf)
	malformed += n
	wdShadows = suppressPosted(wdShadows, referenceSet(posted))

	annotated := annotate(posted, in.UpiPayments, in.Withdrawals)

	completed, n := completedRegistrations(in.Registrations)
	malformed += n

	feed := make([]MergedTransaction, 0, len(upiShadows)+len(wdShadows)+len(annotated))
	feed = append(feed, upiShadows...)
	feed = append(feed, wdShadows...)
	feed = append(feed, annotated...)
	slices.SortStableFunc(feed, func(a, b MergedTransaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return Result{
		Feed:               feed,
		Totals:             computeTotals(annotated, in.Withdrawals, completed),
		Balance:            latestBalance(feed),
		TransactionCount:   len(posted),
		Malformed:          malformed,
		CompletedTitleKeys: completedTitleKeys(completed),
		AsOf:               asOf,
	}
}

// ComputeMergedFeed returns the merged, annotated feed, newest first.
func ComputeMergedFeed(in Inputs) []MergedTransaction {
	return Reconcile(in).Feed
}

// ComputeTotals returns the derived totals.
func ComputeTotals(in Inputs) Totals {
	return Reconcile(in).Totals
}

func latestBalance(feed []MergedTransaction) *decimal.Decimal {
	for _, t := range feed {
		if !t.Synthetic && t.BalanceAfter != nil {
			b := *t.BalanceAfter
			return &b
		}
	}
	return nil
}
