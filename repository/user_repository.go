package repository

import (
	"context"
	"fmt"

	"betsbot/database"
	"betsbot/models"
	"betsbot/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, balance, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// GetOrCreate atomically fetches a user, creating the row with the initial
// balance on first access. The upsert makes concurrent first reads converge on
// one row instead of racing a read-then-write. The returned created flag is
// true only for the call that actually inserted the row.
func (r *UserRepository) GetOrCreate(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, bool, error) {
	query := `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE SET
			username = EXCLUDED.username,
			updated_at = NOW()
		RETURNING discord_id, username, balance, created_at, updated_at, (xmax = 0) AS inserted
	`

	var user models.User
	var created bool
	err := r.q.QueryRow(ctx, query, discordID, username, models.ClampBalance(initialBalance)).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
		&created,
	)

	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create user %d: %w", discordID, err)
	}

	return &user, created, nil
}

// AddBalance credits a user's balance atomically and returns the new balance
func (r *UserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("user %d: %w", discordID, service.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", discordID, err)
	}

	return newBalance, nil
}

// DeductStake debits a stake from a user's balance, failing with
// ErrInsufficientBalance when the stake exceeds the balance. The result is
// clamped to the balance floor, so staking an entire balance leaves 1 coin.
func (r *UserRepository) DeductStake(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = GREATEST($3, balance - $1), updated_at = NOW()
		WHERE discord_id = $2 AND balance >= $1
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID, models.MinBalance).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the user is missing or the stake exceeds the balance
		user, getErr := r.GetByDiscordID(ctx, discordID)
		if getErr != nil {
			return 0, fmt.Errorf("failed to check user: %w", getErr)
		}
		if user == nil {
			return 0, fmt.Errorf("user %d: %w", discordID, service.ErrNotFound)
		}
		return 0, fmt.Errorf("have %d, need %d: %w", user.Balance, amount, service.ErrInsufficientBalance)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct stake for user %d: %w", discordID, err)
	}

	return newBalance, nil
}

// AdjustBalance applies a signed delta to a user's balance, clamped to the
// balance floor. Used by the privileged addcoins command.
func (r *UserRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = GREATEST($3, balance + $1), updated_at = NOW()
		WHERE discord_id = $2
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, delta, discordID, models.MinBalance).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("user %d: %w", discordID, service.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance for user %d: %w", discordID, err)
	}

	return newBalance, nil
}

// GetTopBalances returns the highest balances in descending order
func (r *UserRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT discord_id, username, balance, created_at, updated_at
		FROM users
		ORDER BY balance DESC, discord_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.DiscordID,
			&user.Username,
			&user.Balance,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
