package service

import (
	"context"
	"fmt"

	"betsbot/config"
	"betsbot/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, cfg *config.Config) UserService {
	return &userService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// GetOrCreateUser retrieves an existing user or creates a new one with the
// configured starting balance. The underlying upsert keeps concurrent first
// accesses from creating divergent rows.
func (s *userService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, created, err := uow.UserRepository().GetOrCreate(ctx, discordID, username, s.config.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	if created {
		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   0,
			BalanceAfter:    user.Balance,
			ChangeAmount:    user.Balance,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetLeaderboard returns the top balances
func (s *userService) GetLeaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetTopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return users, nil
}

// AdjustBalance applies a signed delta to a user's balance on behalf of a
// privileged adjuster. The target account is created if it doesn't exist, and
// the result is clamped to the balance floor.
func (s *userService) AdjustBalance(ctx context.Context, discordID int64, username string, delta int64, adjusterID int64) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("delta must be non-zero: %w", ErrInvalidStake)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, _, err := uow.UserRepository().GetOrCreate(ctx, discordID, username, s.config.StartingBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to get or create user: %w", err)
	}

	newBalance, err := uow.UserRepository().AdjustBalance(ctx, discordID, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    newBalance - user.Balance,
		TransactionType: models.TransactionTypeAdminAdjust,
		TransactionMetadata: map[string]any{
			"adjuster_discord_id": adjusterID,
			"requested_delta":     delta,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return 0, fmt.Errorf("failed to record balance adjustment: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}
