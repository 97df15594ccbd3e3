package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
)

// Credential is the authenticated session passed explicitly into every fetch.
// The zero value means "not signed in".
type Credential struct {
	Subject string
	Token   string
}

// IsZero reports whether no session is present.
func (c Credential) IsZero() bool {
	return strings.TrimSpace(c.Subject) == "" && strings.TrimSpace(c.Token) == ""
}

// UserID returns the subject or ErrUnauthorized when the credential cannot identify a user.
func (c Credential) UserID() (string, error) {
	s := strings.TrimSpace(c.Subject)
	if s == "" {
		return "", shared.ErrUnauthorized
	}
	return s, nil
}

// Resolve is the common preamble of every fetch: a zero credential means "return an
// empty collection", a credential without subject is unauthorized.
func (c Credential) Resolve() (userID string, signedIn bool, err error) {
	if c.IsZero() {
		return "", false, nil
	}
	userID, err = c.UserID()
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// LedgerSource fetches posted ledger entries.
type LedgerSource interface {
	FetchLedgerEntries(ctx context.Context, cred Credential) ([]ledger.Entry, error)
}

// UpiPaymentSource fetches UPI top-up records.
type UpiPaymentSource interface {
	FetchUpiPayments(ctx context.Context, cred Credential) ([]UpiPayment, error)
}

// WithdrawalSource fetches withdrawal requests.
type WithdrawalSource interface {
	FetchWithdrawals(ctx context.Context, cred Credential) ([]Withdrawal, error)
}

// RegistrationSource fetches tournament registrations with their matches.
type RegistrationSource interface {
	FetchRegistrations(ctx context.Context, cred Credential) ([]Registration, error)
}

// Sources bundles the four collaborators.
type Sources struct {
	Ledger        LedgerSource
	UpiPayments   UpiPaymentSource
	Withdrawals   WithdrawalSource
	Registrations RegistrationSource
}

// Source names used in logs, metrics and events.
const (
	SourceLedger        = "ledger"
	SourceUpiPayments   = "upi_payments"
	SourceWithdrawals   = "withdrawals"
	SourceRegistrations = "registrations"
)

// ErrSourceFailed reports which collaborator failed and why.
type ErrSourceFailed struct {
	Source string
	Err    error
}

func (e ErrSourceFailed) Error() string {
	return fmt.Sprintf("%s source failed: %v", e.Source, e.Err)
}

func (e ErrSourceFailed) Unwrap() error {
	return e.Err
}
