package repository

import (
	"context"
	"fmt"
	"time"

	"betsbot/database"
	"betsbot/models"

	"github.com/jackc/pgx/v5"
)

// PendingStakeRepository implements the service.PendingStakeRepository
// interface. Pending stakes are persisted so a bet a user started before a
// restart is not silently lost.
type PendingStakeRepository struct {
	q queryable
}

// NewPendingStakeRepository creates a new pending stake repository
func NewPendingStakeRepository(db *database.DB) *PendingStakeRepository {
	return &PendingStakeRepository{q: db.Pool}
}

// newPendingStakeRepositoryWithTx creates a new pending stake repository with a transaction
func newPendingStakeRepositoryWithTx(tx queryable) *PendingStakeRepository {
	return &PendingStakeRepository{q: tx}
}

// Upsert records or replaces a user's pending stake. A user has at most one
// prompt open at a time; starting a new one supersedes the old.
func (r *PendingStakeRepository) Upsert(ctx context.Context, stake *models.PendingStake) error {
	query := `
		INSERT INTO pending_stakes (discord_id, message_id, channel_id, side, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (discord_id) DO UPDATE SET
			message_id = EXCLUDED.message_id,
			channel_id = EXCLUDED.channel_id,
			side = EXCLUDED.side,
			created_at = NOW(),
			expires_at = EXCLUDED.expires_at
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		stake.DiscordID,
		stake.MessageID,
		stake.ChannelID,
		stake.Side,
		stake.ExpiresAt,
	).Scan(&stake.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert pending stake for user %d: %w", stake.DiscordID, err)
	}

	return nil
}

// GetByUser returns a user's open stake prompt, or nil
func (r *PendingStakeRepository) GetByUser(ctx context.Context, discordID int64) (*models.PendingStake, error) {
	query := `
		SELECT discord_id, message_id, channel_id, side, created_at, expires_at
		FROM pending_stakes
		WHERE discord_id = $1
	`

	var stake models.PendingStake
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&stake.DiscordID,
		&stake.MessageID,
		&stake.ChannelID,
		&stake.Side,
		&stake.CreatedAt,
		&stake.ExpiresAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending stake for user %d: %w", discordID, err)
	}

	return &stake, nil
}

// Delete removes a user's pending stake. Deleting a missing row is not an
// error; cancellation is idempotent.
func (r *PendingStakeRepository) Delete(ctx context.Context, discordID int64) error {
	query := `
		DELETE FROM pending_stakes
		WHERE discord_id = $1
	`

	if _, err := r.q.Exec(ctx, query, discordID); err != nil {
		return fmt.Errorf("failed to delete pending stake for user %d: %w", discordID, err)
	}

	return nil
}

// DeleteExpired removes prompts past their expiry and returns them so the
// caller can notify the affected users.
func (r *PendingStakeRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*models.PendingStake, error) {
	query := `
		DELETE FROM pending_stakes
		WHERE expires_at <= $1
		RETURNING discord_id, message_id, channel_id, side, created_at, expires_at
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired pending stakes: %w", err)
	}
	defer rows.Close()

	var expired []*models.PendingStake
	for rows.Next() {
		var stake models.PendingStake
		err := rows.Scan(
			&stake.DiscordID,
			&stake.MessageID,
			&stake.ChannelID,
			&stake.Side,
			&stake.CreatedAt,
			&stake.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending stake: %w", err)
		}
		expired = append(expired, &stake)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending stakes: %w", err)
	}

	return expired, nil
}
