package reconciliation

import (
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

// FilterFeed selects a view of an already merged feed. Registrations are consulted
// only by the spent view. Unknown modes return the full feed.
func FilterFeed(feed []MergedTransaction, mode shared.FilterMode, registrations []wallet.Registration) []MergedTransaction {
	var keys []string
	if mode == shared.FilterSpent {
		completed, _ := completedRegistrations(registrations)
		keys = completedTitleKeys(completed)
	}
	return filterWithKeys(feed, mode, keys)
}

func filterWithKeys(feed []MergedTransaction, mode shared.FilterMode, completedKeys []string) []MergedTransaction {
	var keep func(MergedTransaction) bool

	switch mode {
	case shared.FilterAdded:
		keep = MergedTransaction.IsCredit
	case shared.FilterSpent:
		completed := make(map[string]struct{}, len(completedKeys))
		for _, k := range completedKeys {
			completed[k] = struct{}{}
		}
		keep = func(t MergedTransaction) bool {
			if !t.IsDebit() || t.Kind != shared.KindTournamentEntry {
				return false
			}
			key := NormalizeTitle(ExtractTournamentTitle(t.Description))
			if key == "" {
				return false
			}
			_, ok := completed[key]
			return ok
		}
	case shared.FilterWithdrawals:
		keep = func(t MergedTransaction) bool {
			return t.IsDebit() && (t.Kind == shared.KindWithdrawalRequest || t.WithdrawalStatus != "")
		}
	default:
		keep = func(MergedTransaction) bool { return true }
	}

	out := make([]MergedTransaction, 0, len(feed))
	for _, t := range feed {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
