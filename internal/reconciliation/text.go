package reconciliation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const tournamentRegistrationPrefix = "Tournament Registration - "

// refundTitleSeparator precedes the match title in refund credit descriptions, e.g.
// "Refund: Match cancelled by admin - Summer Cup".
const refundTitleSeparator = " - "

var addMoneyPattern = regexp.MustCompile(`(?i)UPI Add Money|Money added via|Add Money`)

// ParseAmount reads a textual amount. Missing, non-numeric and negative values are
// coerced to a non-negative decimal and reported with ok=false.
func ParseAmount(raw string) (amount decimal.Decimal, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return d.Abs(), false
	}
	return d, true
}

// parseOptionalAmount is ParseAmount for fields that may legitimately be absent.
// Only a present but unreadable value is reported as malformed.
func parseOptionalAmount(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}
	return ParseAmount(raw)
}

// parseFallbackAmount reads a registration's paid amount or entry fee. Only a positive
// value can stand in for a missing debit; anything else is zero.
func parseFallbackAmount(raw string) (decimal.Decimal, bool) {
	d, ok := parseOptionalAmount(raw)
	if !ok {
		return decimal.Zero, false
	}
	return d, true
}

// ExtractTournamentTitle strips the registration debit prefix from a description.
func ExtractTournamentTitle(description string) string {
	if rest, found := strings.CutPrefix(description, tournamentRegistrationPrefix); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(description)
}

// RefundedTitle returns the match title trailing the last " - " of a refund
// description, or "" when there is none.
func RefundedTitle(description string) string {
	idx := strings.LastIndex(description, refundTitleSeparator)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(description[idx+len(refundTitleSeparator):])
}

// NormalizeTitle builds the compact comparison key for match titles: lower case,
// ASCII letters and digits only, no spaces.
func NormalizeTitle(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAddMoneyDescription(description string) bool {
	return addMoneyPattern.MatchString(description)
}
