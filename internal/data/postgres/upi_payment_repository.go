// Package postgres provides the PostgreSQL backed collaborators of the reconciliation:
// UPI payments, withdrawal requests and tournament registrations. All of them are
// read-only views over tables owned by the payment and tournament services.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/persistence"
)

const listUpiPaymentsQuery = `
		SELECT id::text, COALESCE(amount::text, ''), COALESCE(upi_id, ''), COALESCE(status, ''),
			COALESCE(utr, ''), COALESCE(payment_app, ''), COALESCE(reference_id, ''), created_at, updated_at
		FROM upi_payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

// UpiPaymentRepository implements wallet.UpiPaymentSource for PostgreSQL
type UpiPaymentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ wallet.UpiPaymentSource = (*UpiPaymentRepository)(nil)

// NewUpiPaymentRepository creates a new PostgreSQL UPI payment repository.
func NewUpiPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) *UpiPaymentRepository {
	return &UpiPaymentRepository{
		querier: db.Querier(),
		logger:  logger,
	}
}

// ListByUser returns the user's UPI top-ups, newest first.
func (r *UpiPaymentRepository) ListByUser(ctx context.Context, userID string) ([]wallet.UpiPayment, error) {
	rows, err := r.querier.Query(ctx, listUpiPaymentsQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list UPI payments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list UPI payments: %w: %w", shared.ErrUnavailable, err)
	}
	defer rows.Close()

	payments := make([]wallet.UpiPayment, 0)
	for rows.Next() {
		var p wallet.UpiPayment
		var status string
		if err := rows.Scan(&p.ID, &p.Amount, &p.UpiID, &status, &p.UTR, &p.PaymentApp, &p.ReferenceID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan UPI payment", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to scan UPI payment: %w: %w", shared.ErrUnavailable, err)
		}
		p.Status = shared.UpiStatus(status)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate UPI payments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to iterate UPI payments: %w: %w", shared.ErrUnavailable, err)
	}

	return payments, nil
}

// FetchUpiPayments resolves the credential and lists the user's payments.
func (r *UpiPaymentRepository) FetchUpiPayments(ctx context.Context, cred wallet.Credential) ([]wallet.UpiPayment, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil || !signedIn {
		return nil, err
	}
	return r.ListByUser(ctx, userID)
}
