package repository

import (
	"context"
	"errors"
	"fmt"

	"betsbot/database"
	"betsbot/models"
	"betsbot/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create inserts a new bet. The (message_id, discord_id) primary key maps
// unique violations to ErrDuplicateBet, leaving the ledger unchanged.
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (message_id, discord_id, side, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.MessageID,
		bet.DiscordID,
		bet.Side,
		bet.Amount,
	).Scan(&bet.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user %d on matchup %d: %w", bet.DiscordID, bet.MessageID, service.ErrDuplicateBet)
		}
		return fmt.Errorf("failed to create bet for user %d: %w", bet.DiscordID, err)
	}

	return nil
}

// GetByMessage returns all bets on a matchup, oldest first
func (r *BetRepository) GetByMessage(ctx context.Context, messageID int64) ([]*models.Bet, error) {
	query := `
		SELECT message_id, discord_id, side, amount, resolved, created_at
		FROM bets
		WHERE message_id = $1
		ORDER BY created_at, discord_id
	`

	rows, err := r.q.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets for matchup %d: %w", messageID, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		var bet models.Bet
		err := rows.Scan(
			&bet.MessageID,
			&bet.DiscordID,
			&bet.Side,
			&bet.Amount,
			&bet.Resolved,
			&bet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

// GetByMessageAndUser returns a user's bet on a matchup, or nil
func (r *BetRepository) GetByMessageAndUser(ctx context.Context, messageID, discordID int64) (*models.Bet, error) {
	query := `
		SELECT message_id, discord_id, side, amount, resolved, created_at
		FROM bets
		WHERE message_id = $1 AND discord_id = $2
	`

	var bet models.Bet
	err := r.q.QueryRow(ctx, query, messageID, discordID).Scan(
		&bet.MessageID,
		&bet.DiscordID,
		&bet.Side,
		&bet.Amount,
		&bet.Resolved,
		&bet.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet for user %d on matchup %d: %w", discordID, messageID, err)
	}

	return &bet, nil
}

// MarkResolved flags every bet on a matchup as resolved
func (r *BetRepository) MarkResolved(ctx context.Context, messageID int64) error {
	query := `
		UPDATE bets
		SET resolved = TRUE
		WHERE message_id = $1
	`

	if _, err := r.q.Exec(ctx, query, messageID); err != nil {
		return fmt.Errorf("failed to mark bets resolved for matchup %d: %w", messageID, err)
	}

	return nil
}

// DeleteByMessage removes all bets on a matchup. Settlement deletes rather
// than archives; the balance_history table keeps the durable record.
func (r *BetRepository) DeleteByMessage(ctx context.Context, messageID int64) error {
	query := `
		DELETE FROM bets
		WHERE message_id = $1
	`

	if _, err := r.q.Exec(ctx, query, messageID); err != nil {
		return fmt.Errorf("failed to delete bets for matchup %d: %w", messageID, err)
	}

	return nil
}
