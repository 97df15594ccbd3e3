package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/persistence"
)

const listWithdrawalsQuery = `
		SELECT id::text, COALESCE(amount::text, ''), COALESCE(status, ''), COALESCE(method, ''),
			COALESCE(upi_id, ''), COALESCE(account_number, ''), COALESCE(ifsc_code, ''),
			COALESCE(account_holder_name, ''), COALESCE(reference_id, ''), created_at, updated_at
		FROM withdrawal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

// WithdrawalRepository implements wallet.WithdrawalSource for PostgreSQL
type WithdrawalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ wallet.WithdrawalSource = (*WithdrawalRepository)(nil)

// NewWithdrawalRepository creates a new PostgreSQL withdrawal repository.
func NewWithdrawalRepository(logger *slog.Logger, db *persistence.PostgresDB) *WithdrawalRepository {
	return &WithdrawalRepository{
		querier: db.Querier(),
		logger:  logger,
	}
}

// ListByUser returns the user's withdrawal requests, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string) ([]wallet.Withdrawal, error) {
	rows, err := r.querier.Query(ctx, listWithdrawalsQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list withdrawals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list withdrawals: %w: %w", shared.ErrUnavailable, err)
	}
	defer rows.Close()

	withdrawals := make([]wallet.Withdrawal, 0)
	for rows.Next() {
		var w wallet.Withdrawal
		var status, method string
		if err := rows.Scan(
			&w.ID,
			&w.Amount,
			&status,
			&method,
			&w.UpiID,
			&w.AccountNumber,
			&w.IfscCode,
			&w.AccountHolderName,
			&w.ReferenceID,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan withdrawal", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to scan withdrawal: %w: %w", shared.ErrUnavailable, err)
		}
		w.Status = shared.WithdrawalStatus(status)
		w.Method = shared.WithdrawalMethod(method)
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate withdrawals", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to iterate withdrawals: %w: %w", shared.ErrUnavailable, err)
	}

	return withdrawals, nil
}

// FetchWithdrawals resolves the credential and lists the user's withdrawals.
func (r *WithdrawalRepository) FetchWithdrawals(ctx context.Context, cred wallet.Credential) ([]wallet.Withdrawal, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil || !signedIn {
		return nil, err
	}
	return r.ListByUser(ctx, userID)
}
