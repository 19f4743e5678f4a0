package service

import (
	"context"
	"time"

	"betsbot/events"
	"betsbot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil when unknown
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// GetOrCreate atomically fetches a user, creating the row with the
	// initial balance on first access. created is true when the row was
	// inserted by this call.
	GetOrCreate(ctx context.Context, discordID int64, username string, initialBalance int64) (user *models.User, created bool, err error)

	// AddBalance credits a user's balance atomically and returns the new balance
	AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error)

	// DeductStake debits a stake, failing with ErrInsufficientBalance when
	// the stake exceeds the balance
	DeductStake(ctx context.Context, discordID int64, amount int64) (int64, error)

	// AdjustBalance applies a signed delta, clamped to the balance floor
	AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error)

	// GetTopBalances returns the highest balances in descending order
	GetTopBalances(ctx context.Context, limit int) ([]*models.User, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a new bet, failing with ErrDuplicateBet when the user
	// already holds a bet on the matchup
	Create(ctx context.Context, bet *models.Bet) error

	// GetByMessage returns all bets on a matchup, oldest first
	GetByMessage(ctx context.Context, messageID int64) ([]*models.Bet, error)

	// GetByMessageAndUser returns a user's bet on a matchup, or nil
	GetByMessageAndUser(ctx context.Context, messageID, discordID int64) (*models.Bet, error)

	// MarkResolved flags every bet on a matchup as resolved
	MarkResolved(ctx context.Context, messageID int64) error

	// DeleteByMessage removes all bets on a matchup
	DeleteByMessage(ctx context.Context, messageID int64) error
}

// HighestBetRepository defines the interface for the all-time record bet
type HighestBetRepository interface {
	// Get returns the record, or nil when no bet has ever been placed
	Get(ctx context.Context) (*models.HighestBet, error)

	// UpdateIfHigher replaces the record only for a strictly larger amount,
	// returning true when the record changed hands
	UpdateIfHigher(ctx context.Context, record *models.HighestBet) (bool, error)
}

// PendingStakeRepository defines the interface for open DM stake prompts
type PendingStakeRepository interface {
	// Upsert records or replaces a user's pending stake
	Upsert(ctx context.Context, stake *models.PendingStake) error

	// GetByUser returns a user's open stake prompt, or nil
	GetByUser(ctx context.Context, discordID int64) (*models.PendingStake, error)

	// Delete removes a user's pending stake
	Delete(ctx context.Context, discordID int64) error

	// DeleteExpired removes prompts past their expiry and returns them
	DeleteExpired(ctx context.Context, now time.Time) ([]*models.PendingStake, error)
}

// BalanceHistoryRepository defines the interface for the balance audit ledger
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent balance changes for a user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates a new one with
	// the configured starting balance
	GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error)

	// GetLeaderboard returns the top balances
	GetLeaderboard(ctx context.Context, limit int) ([]*models.User, error)

	// AdjustBalance applies a signed delta to a user's balance on behalf of
	// a privileged adjuster, creating the account if needed
	AdjustBalance(ctx context.Context, discordID int64, username string, delta int64, adjusterID int64) (int64, error)
}

// BettingService defines the interface for bet placement and the DM stake flow
type BettingService interface {
	// PlaceBet validates and places a confirmed bet, debiting the stake
	PlaceBet(ctx context.Context, messageID, discordID int64, side models.Side, amount int64) (*models.BetReceipt, error)

	// GetBet returns a user's bet on a matchup, or nil
	GetBet(ctx context.Context, messageID, discordID int64) (*models.Bet, error)

	// GetLiveBets returns all open bets on a matchup
	GetLiveBets(ctx context.Context, messageID int64) ([]*models.Bet, error)

	// GetHighestBet returns the all-time record bet, or nil
	GetHighestBet(ctx context.Context) (*models.HighestBet, error)

	// StartPendingStake opens (or replaces) a user's DM stake prompt
	StartPendingStake(ctx context.Context, discordID, messageID, channelID int64, side models.Side) (*models.PendingStake, error)

	// GetPendingStake returns a user's open stake prompt, or nil
	GetPendingStake(ctx context.Context, discordID int64) (*models.PendingStake, error)

	// ConfirmPendingStake places the bet a prompt was opened for. The
	// pending row survives validation failures so the user can retry.
	ConfirmPendingStake(ctx context.Context, discordID int64, amount int64) (*models.BetReceipt, error)

	// CancelPendingStake drops a user's prompt if it targets the given
	// matchup, reporting whether anything was cancelled
	CancelPendingStake(ctx context.Context, discordID, messageID int64) (bool, error)

	// ExpirePendingStakes sweeps prompts past their expiry
	ExpirePendingStakes(ctx context.Context, now time.Time) ([]*models.PendingStake, error)
}

// SettlementService defines the interface for resolving matchups
type SettlementService interface {
	// Resolve declares the winning side of a matchup, credits every winner
	// and removes the matchup's bets, all in one transaction
	Resolve(ctx context.Context, messageID int64, winningSide models.Side, resolverID int64) (*models.Settlement, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	BetRepository() BetRepository
	HighestBetRepository() HighestBetRepository
	PendingStakeRepository() PendingStakeRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
