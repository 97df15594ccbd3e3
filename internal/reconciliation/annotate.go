package reconciliation

import (
	"strings"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

const (
	creditedUpiDescription      = "UPI Add Money (Credited)"
	withdrawalRefundDescription = "Withdrawal Refund"
)

// annotate tags real entries with status from the out-of-band records. The input
// slice is not modified. Descriptions are only filled in when blank.
func annotate(entries []MergedTransaction, payments []wallet.UpiPayment, withdrawals []wallet.Withdrawal) []MergedTransaction {
	// later records win on duplicate keys
	upiByRef := make(map[string]wallet.UpiPayment, len(payments))
	for _, p := range payments {
		if ref := strings.TrimSpace(p.ReferenceID); ref != "" {
			upiByRef[ref] = p
		}
	}
	wdByRef := make(map[string]wallet.Withdrawal, len(withdrawals))
	for _, w := range withdrawals {
		wdByRef[w.Key()] = w
	}

	out := make([]MergedTransaction, len(entries))
	for i, t := range entries {
		if t.ReferenceID != "" {
			if p, ok := upiByRef[t.ReferenceID]; ok && p.Status.IsCredited() {
				t.UpiStatus = shared.UpiStatusCredited
				t.Description = withDefault(t.Description, creditedUpiDescription)
			}
		}

		if t.IsCredit() && t.Kind == shared.KindWithdrawalRefund {
			t.RefundStatus = shared.RefundStatusRefunded
			t.Description = withDefault(t.Description, withdrawalRefundDescription)
		}

		if t.ReferenceID != "" {
			if w, ok := wdByRef[t.ReferenceID]; ok {
				t.WithdrawalStatus = w.Status.Normalize()
				t.Description = withDefault(t.Description, withdrawalDescription(w))
			}
		}

		out[i] = t
	}
	return out
}

func withDefault(desc, fallback string) string {
	if strings.TrimSpace(desc) == "" {
		return fallback
	}
	return desc
}
