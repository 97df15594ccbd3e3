package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/platform/persistence"
)

// Registrations are returned newest first, the same order the ledger is read in,
// so that same-titled entries pair up positionally with their debits.
const listRegistrationsQuery = `
		SELECT r.id::text, COALESCE(r.status, ''), COALESCE(r.match_title, ''), COALESCE(r.amount_paid::text, ''),
			COALESCE(m.id::text, ''), COALESCE(m.title, ''), COALESCE(m.status, ''), COALESCE(m.entry_fee::text, ''), m.scheduled_at
		FROM registrations r
		LEFT JOIN matches m ON m.id = r.match_id
		WHERE r.user_id = $1
		ORDER BY r.registered_at DESC, r.id DESC
	`

// RegistrationRepository implements wallet.RegistrationSource for PostgreSQL
type RegistrationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ wallet.RegistrationSource = (*RegistrationRepository)(nil)

// NewRegistrationRepository creates a new PostgreSQL registration repository.
func NewRegistrationRepository(logger *slog.Logger, db *persistence.PostgresDB) *RegistrationRepository {
	return &RegistrationRepository{
		querier: db.Querier(),
		logger:  logger,
	}
}

// ListByUser returns the user's registrations with their linked match.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]wallet.Registration, error) {
	rows, err := r.querier.Query(ctx, listRegistrationsQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list registrations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list registrations: %w: %w", shared.ErrUnavailable, err)
	}
	defer rows.Close()

	registrations := make([]wallet.Registration, 0)
	for rows.Next() {
		var (
			reg                               wallet.Registration
			matchID, title, status, entryFee string
			scheduledAt                       *time.Time
		)
		if err := rows.Scan(&reg.ID, &reg.Status, &reg.MatchTitle, &reg.AmountPaid, &matchID, &title, &status, &entryFee, &scheduledAt); err != nil {
			r.logger.Error("Failed to scan registration", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to scan registration: %w: %w", shared.ErrUnavailable, err)
		}
		if matchID != "" {
			reg.Match = &wallet.Match{
				ID:          matchID,
				Title:       title,
				Status:      shared.MatchStatus(status),
				EntryFee:    entryFee,
				ScheduledAt: scheduledAt,
			}
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate registrations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to iterate registrations: %w: %w", shared.ErrUnavailable, err)
	}

	return registrations, nil
}

// FetchRegistrations resolves the credential and lists the user's registrations.
func (r *RegistrationRepository) FetchRegistrations(ctx context.Context, cred wallet.Credential) ([]wallet.Registration, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil || !signedIn {
		return nil, err
	}
	return r.ListByUser(ctx, userID)
}
