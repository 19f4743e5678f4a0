package repository

import (
	"context"
	"fmt"

	"betsbot/database"
	"betsbot/models"

	"github.com/jackc/pgx/v5"
)

// HighestBetRepository implements the service.HighestBetRepository interface
type HighestBetRepository struct {
	q queryable
}

// NewHighestBetRepository creates a new highest bet repository
func NewHighestBetRepository(db *database.DB) *HighestBetRepository {
	return &HighestBetRepository{q: db.Pool}
}

// newHighestBetRepositoryWithTx creates a new highest bet repository with a transaction
func newHighestBetRepositoryWithTx(tx queryable) *HighestBetRepository {
	return &HighestBetRepository{q: tx}
}

// Get returns the all-time highest bet record, or nil when no bet has ever
// been placed
func (r *HighestBetRepository) Get(ctx context.Context) (*models.HighestBet, error) {
	query := `
		SELECT discord_id, message_id, side, amount, updated_at
		FROM highest_bet
		WHERE id = 1
	`

	var record models.HighestBet
	err := r.q.QueryRow(ctx, query).Scan(
		&record.DiscordID,
		&record.MessageID,
		&record.Side,
		&record.Amount,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get highest bet record: %w", err)
	}

	return &record, nil
}

// UpdateIfHigher replaces the record only when the new amount strictly
// exceeds the stored one. Ties never overwrite. Returns true when the record
// changed hands.
func (r *HighestBetRepository) UpdateIfHigher(ctx context.Context, record *models.HighestBet) (bool, error) {
	query := `
		INSERT INTO highest_bet (id, discord_id, message_id, side, amount, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			discord_id = EXCLUDED.discord_id,
			message_id = EXCLUDED.message_id,
			side = EXCLUDED.side,
			amount = EXCLUDED.amount,
			updated_at = NOW()
		WHERE EXCLUDED.amount > highest_bet.amount
	`

	tag, err := r.q.Exec(ctx, query,
		record.DiscordID,
		record.MessageID,
		record.Side,
		record.Amount,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update highest bet record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
