package shared

import "strings"

// Correlation key prefixes written by the backend services.
const (
	PrefixTournamentEntry   = "TRN_"
	PrefixUpiTopUp          = "UPI_"
	PrefixWithdrawalRefund  = "WRF_"
	PrefixMatchRefund       = "REF_"
	PrefixPrize             = "PRIZE_"
	PrefixWithdrawalRequest = "WREQ_"
)

// CorrelationKind is the decoded meaning of a correlation key prefix.
type CorrelationKind int

const (
	KindNone CorrelationKind = iota
	KindTournamentEntry
	KindUpiTopUp
	KindWithdrawalRefund
	KindMatchRefund
	KindPrize
	KindWithdrawalRequest
	KindOther
)

var kindPrefixes = []struct {
	prefix string
	kind   CorrelationKind
}{
	{PrefixTournamentEntry, KindTournamentEntry},
	{PrefixUpiTopUp, KindUpiTopUp},
	{PrefixWithdrawalRefund, KindWithdrawalRefund},
	{PrefixMatchRefund, KindMatchRefund},
	{PrefixPrize, KindPrize},
	{PrefixWithdrawalRequest, KindWithdrawalRequest},
}

// ClassifyCorrelationKey decodes the prefix of a key. Prefixes are case sensitive.
func ClassifyCorrelationKey(key string) CorrelationKind {
	if key == "" {
		return KindNone
	}
	for _, p := range kindPrefixes {
		if strings.HasPrefix(key, p.prefix) {
			return p.kind
		}
	}
	return KindOther
}

// IsRefund reports whether the kind returns money for a cancelled action.
func (k CorrelationKind) IsRefund() bool {
	return k == KindWithdrawalRefund || k == KindMatchRefund
}

func (k CorrelationKind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindTournamentEntry:
		return "TOURNAMENT_ENTRY"
	case KindUpiTopUp:
		return "UPI_TOP_UP"
	case KindWithdrawalRefund:
		return "WITHDRAWAL_REFUND"
	case KindMatchRefund:
		return "MATCH_REFUND"
	case KindPrize:
		return "PRIZE"
	case KindWithdrawalRequest:
		return "WITHDRAWAL_REQUEST"
	default:
		return "OTHER"
	}
}

// MarshalText lets the kind appear by name in JSON output.
func (k CorrelationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// WithdrawalKey returns the reference a withdrawal is known by in the ledger:
// its own reference when set, otherwise the synthetic WREQ_<id>.
func WithdrawalKey(referenceID, id string) string {
	if ref := strings.TrimSpace(referenceID); ref != "" {
		return ref
	}
	return PrefixWithdrawalRequest + id
}

// UnmarshalText is the inverse of MarshalText. Unknown names decode as KindOther.
func (k *CorrelationKind) UnmarshalText(text []byte) error {
	for c := KindNone; c <= KindOther; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	*k = KindOther
	return nil
}
