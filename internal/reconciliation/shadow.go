package reconciliation

import (
	"fmt"
	"strings"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

const (
	upiShadowIDPrefix        = "upi-"
	withdrawalShadowIDPrefix = "wd-"
)

// synthesizeUpiShadows emits a placeholder credit for every payment that is waiting
// for verification or was rejected. These never reach the ledger, so they are not
// deduplicated against it.
func synthesizeUpiShadows(payments []wallet.UpiPayment, asOf time.Time) ([]MergedTransaction, int) {
	var out []MergedTransaction
	malformed := 0

	for _, p := range payments {
		if !p.Status.IsShadowed() {
			continue
		}
		status := p.Status.Normalize()

		amount, amountOK := ParseAmount(p.Amount)
		createdAt, timeOK := firstTime(asOf, p.UpdatedAt, p.CreatedAt)
		if !amountOK || !timeOK {
			malformed++
		}

		ref := strings.TrimSpace(p.ReferenceID)
		out = append(out, MergedTransaction{
			ID:          upiShadowIDPrefix + p.ID,
			Type:        shared.DirectionCredit,
			Amount:      amount,
			Description: upiShadowDescription(status, p.UTR),
			ReferenceID: ref,
			Kind:        shared.ClassifyCorrelationKey(ref),
			CreatedAt:   createdAt,
			Synthetic:   true,
			UpiStatus:   status,
		})
	}

	return out, malformed
}

func upiShadowDescription(status shared.UpiStatus, utr string) string {
	state := "(Rejected)"
	if status == shared.UpiStatusUtrSubmitted {
		state = "(Pending Verification)"
	}
	desc := "UPI Add Money " + state
	if u := strings.TrimSpace(utr); u != "" {
		desc += fmt.Sprintf(" (UTR: %s)", u)
	}
	return desc
}

// synthesizeWithdrawalShadows emits a placeholder debit for every withdrawal request,
// whatever its status.
func synthesizeWithdrawalShadows(withdrawals []wallet.Withdrawal, asOf time.Time) ([]MergedTransaction, int) {
	out := make([]MergedTransaction, 0, len(withdrawals))
	malformed := 0

	for _, w := range withdrawals {
		amount, amountOK := ParseAmount(w.Amount)
		createdAt, timeOK := firstTime(asOf, w.UpdatedAt, w.CreatedAt)
		if !amountOK || !timeOK {
			malformed++
		}

		key := w.Key()
		desc := withdrawalDescription(w)
		if ref := strings.TrimSpace(w.ReferenceID); ref != "" {
			desc += fmt.Sprintf(" (Ref: %s)", ref)
		}

		out = append(out, MergedTransaction{
			ID:               withdrawalShadowIDPrefix + w.ID,
			Type:             shared.DirectionDebit,
			Amount:           amount,
			Description:      desc,
			ReferenceID:      key,
			Kind:             shared.ClassifyCorrelationKey(key),
			CreatedAt:        createdAt,
			Synthetic:        true,
			WithdrawalStatus: w.Status.Normalize(),
		})
	}

	return out, malformed
}

// withdrawalDescription renders "Withdrawal (<Status>) via <Method>[ (<upiId>)]".
func withdrawalDescription(w wallet.Withdrawal) string {
	method := strings.TrimSpace(string(w.Method))
	desc := fmt.Sprintf("Withdrawal (%s) via %s", w.Status.Label(), method)
	if strings.EqualFold(method, string(shared.WithdrawalMethodUPI)) {
		if upi := strings.TrimSpace(w.UpiID); upi != "" {
			desc += fmt.Sprintf(" (%s)", upi)
		}
	}
	return desc
}

// suppressPosted drops shadows whose key already belongs to a real ledger entry.
func suppressPosted(shadows []MergedTransaction, realKeys map[string]struct{}) []MergedTransaction {
	out := make([]MergedTransaction, 0, len(shadows))
	for _, s := range shadows {
		if _, posted := realKeys[s.ReferenceID]; posted {
			continue
		}
		out = append(out, s)
	}
	return out
}

func referenceSet(entries []MergedTransaction) map[string]struct{} {
	keys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ReferenceID != "" {
			keys[e.ReferenceID] = struct{}{}
		}
	}
	return keys
}
