package service

import (
	"context"
	"fmt"
	"time"

	"betsbot/config"
	"betsbot/events"
	"betsbot/models"
)

// bettingService implements the BettingService interface
type bettingService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory UnitOfWorkFactory, cfg *config.Config) BettingService {
	return &bettingService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// PlaceBet validates and places a confirmed bet. The duplicate check, stake
// debit, bet insert, highest-bet update and audit record all commit or roll
// back as one transaction.
func (s *bettingService) PlaceBet(ctx context.Context, messageID, discordID int64, side models.Side, amount int64) (*models.BetReceipt, error) {
	if !side.IsValid() {
		return nil, fmt.Errorf("side must be 1 or 2: %w", ErrInvalidSide)
	}
	if amount < s.config.MinStake {
		return nil, fmt.Errorf("minimum stake is %d: %w", s.config.MinStake, ErrInvalidStake)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Early duplicate check for a clean error; the primary key still guards
	// against races.
	existing, err := uow.BetRepository().GetByMessageAndUser(ctx, messageID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bet: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %d on matchup %d: %w", discordID, messageID, ErrDuplicateBet)
	}

	user, created, err := uow.UserRepository().GetOrCreate(ctx, discordID, "", s.config.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if created {
		initial := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   0,
			BalanceAfter:    user.Balance,
			ChangeAmount:    user.Balance,
			TransactionType: models.TransactionTypeInitial,
		}
		if err := RecordBalanceChange(ctx, uow, initial); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	if amount > user.Balance {
		return nil, fmt.Errorf("have %d, need %d: %w", user.Balance, amount, ErrInsufficientBalance)
	}

	newBalance, err := uow.UserRepository().DeductStake(ctx, discordID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct stake: %w", err)
	}

	bet := &models.Bet{
		MessageID: messageID,
		DiscordID: discordID,
		Side:      side,
		Amount:    amount,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, err
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    newBalance - user.Balance,
		TransactionType: models.TransactionTypeBetStake,
		TransactionMetadata: map[string]any{
			"side":  int(side),
			"stake": amount,
		},
		RelatedMessageID: &messageID,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record stake: %w", err)
	}

	recordBroken, err := s.updateHighestBet(ctx, uow, bet)
	if err != nil {
		return nil, err
	}

	// A confirmed bet supersedes any open DM prompt for the same matchup
	pending, err := uow.PendingStakeRepository().GetByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending stake: %w", err)
	}
	if pending != nil && pending.MessageID == messageID {
		if err := uow.PendingStakeRepository().Delete(ctx, discordID); err != nil {
			return nil, fmt.Errorf("failed to clear pending stake: %w", err)
		}
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		DiscordID: discordID,
		MessageID: messageID,
		Side:      side,
		Amount:    amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BetReceipt{
		Bet:          bet,
		NewBalance:   newBalance,
		RecordBroken: recordBroken,
	}, nil
}

// updateHighestBet bumps the all-time record when the new stake strictly
// exceeds it and publishes the record-broken event.
func (s *bettingService) updateHighestBet(ctx context.Context, uow UnitOfWork, bet *models.Bet) (bool, error) {
	previous, err := uow.HighestBetRepository().Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get highest bet record: %w", err)
	}

	record := &models.HighestBet{
		DiscordID: bet.DiscordID,
		MessageID: bet.MessageID,
		Side:      bet.Side,
		Amount:    bet.Amount,
	}
	broken, err := uow.HighestBetRepository().UpdateIfHigher(ctx, record)
	if err != nil {
		return false, fmt.Errorf("failed to update highest bet record: %w", err)
	}

	if broken {
		var previousAmount int64
		if previous != nil {
			previousAmount = previous.Amount
		}
		uow.EventBus().Publish(events.HighestBetBrokenEvent{
			DiscordID:      bet.DiscordID,
			MessageID:      bet.MessageID,
			Side:           bet.Side,
			Amount:         bet.Amount,
			PreviousAmount: previousAmount,
		})
	}

	return broken, nil
}

// GetBet returns a user's bet on a matchup, or nil
func (s *bettingService) GetBet(ctx context.Context, messageID, discordID int64) (*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.BetRepository().GetByMessageAndUser(ctx, messageID, discordID)
}

// GetLiveBets returns all open bets on a matchup
func (s *bettingService) GetLiveBets(ctx context.Context, messageID int64) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get live bets: %w", err)
	}

	return bets, nil
}

// GetHighestBet returns the all-time record bet, or nil
func (s *bettingService) GetHighestBet(ctx context.Context) (*models.HighestBet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.HighestBetRepository().Get(ctx)
}

// StartPendingStake opens (or replaces) a user's DM stake prompt
func (s *bettingService) StartPendingStake(ctx context.Context, discordID, messageID, channelID int64, side models.Side) (*models.PendingStake, error) {
	if !side.IsValid() {
		return nil, fmt.Errorf("side must be 1 or 2: %w", ErrInvalidSide)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stake := &models.PendingStake{
		DiscordID: discordID,
		MessageID: messageID,
		ChannelID: channelID,
		Side:      side,
		ExpiresAt: time.Now().Add(s.config.PendingStakeTTL),
	}
	if err := uow.PendingStakeRepository().Upsert(ctx, stake); err != nil {
		return nil, fmt.Errorf("failed to start pending stake: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stake, nil
}

// GetPendingStake returns a user's open stake prompt, or nil
func (s *bettingService) GetPendingStake(ctx context.Context, discordID int64) (*models.PendingStake, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PendingStakeRepository().GetByUser(ctx, discordID)
}

// ConfirmPendingStake places the bet a DM prompt was opened for. Validation
// failures leave the prompt in place so the user can reply again; PlaceBet
// clears it on success.
func (s *bettingService) ConfirmPendingStake(ctx context.Context, discordID int64, amount int64) (*models.BetReceipt, error) {
	pending, err := s.GetPendingStake(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending stake: %w", err)
	}
	if pending == nil {
		return nil, fmt.Errorf("no pending stake for user %d: %w", discordID, ErrNotFound)
	}

	return s.PlaceBet(ctx, pending.MessageID, discordID, pending.Side, amount)
}

// CancelPendingStake drops a user's prompt if it targets the given matchup
func (s *bettingService) CancelPendingStake(ctx context.Context, discordID, messageID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pending, err := uow.PendingStakeRepository().GetByUser(ctx, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to get pending stake: %w", err)
	}
	if pending == nil || pending.MessageID != messageID {
		return false, nil
	}

	if err := uow.PendingStakeRepository().Delete(ctx, discordID); err != nil {
		return false, fmt.Errorf("failed to delete pending stake: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// ExpirePendingStakes sweeps prompts past their expiry and returns them so
// the caller can notify the affected users.
func (s *bettingService) ExpirePendingStakes(ctx context.Context, now time.Time) ([]*models.PendingStake, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.PendingStakeRepository().DeleteExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire pending stakes: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return expired, nil
}
