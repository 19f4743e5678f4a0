package service

import (
	"context"
	"fmt"

	"betsbot/events"
	"betsbot/models"
)

// settlementService implements the SettlementService interface
type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// Resolve settles a matchup: winners are credited stake plus winnings at the
// pool odds, losers forfeit the stake debited at placement, and every bet row
// is deleted. The whole settlement commits or rolls back as one transaction.
func (s *settlementService) Resolve(ctx context.Context, messageID int64, winningSide models.Side, resolverID int64) (*models.Settlement, error) {
	if !winningSide.IsValid() {
		return nil, fmt.Errorf("side must be 1 or 2: %w", ErrInvalidSide)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	if len(bets) == 0 {
		return nil, fmt.Errorf("matchup %d: %w", messageID, ErrNoBets)
	}
	for _, bet := range bets {
		if bet.Resolved {
			return nil, fmt.Errorf("matchup %d: %w", messageID, ErrAlreadyResolved)
		}
	}

	var totalWinning, totalLosing int64
	for _, bet := range bets {
		if bet.Side == winningSide {
			totalWinning += bet.Amount
		} else {
			totalLosing += bet.Amount
		}
	}
	odds := models.CalculateOdds(totalWinning, totalLosing)

	settlement := &models.Settlement{
		MessageID:    messageID,
		WinningSide:  winningSide,
		Odds:         odds,
		TotalWinning: totalWinning,
		TotalLosing:  totalLosing,
	}

	for _, bet := range bets {
		outcome := &models.BettorOutcome{
			DiscordID: bet.DiscordID,
			Side:      bet.Side,
			Amount:    bet.Amount,
		}

		if bet.Side == winningSide {
			payout := bet.CalculatePayout(odds)
			newBalance, err := uow.UserRepository().AddBalance(ctx, bet.DiscordID, payout)
			if err != nil {
				return nil, fmt.Errorf("failed to credit winner %d: %w", bet.DiscordID, err)
			}

			history := &models.BalanceHistory{
				DiscordID:       bet.DiscordID,
				BalanceBefore:   newBalance - payout,
				BalanceAfter:    newBalance,
				ChangeAmount:    payout,
				TransactionType: models.TransactionTypeBetPayout,
				TransactionMetadata: map[string]any{
					"side":  int(bet.Side),
					"stake": bet.Amount,
					"odds":  odds,
				},
				RelatedMessageID: &messageID,
			}
			if err := RecordBalanceChange(ctx, uow, history); err != nil {
				return nil, fmt.Errorf("failed to record payout: %w", err)
			}

			outcome.Won = true
			outcome.Payout = payout
		} else {
			// The stake was debited at placement; this row just closes
			// out the bet in the ledger.
			loser, err := uow.UserRepository().GetByDiscordID(ctx, bet.DiscordID)
			if err != nil {
				return nil, fmt.Errorf("failed to get loser %d: %w", bet.DiscordID, err)
			}
			var balance int64
			if loser != nil {
				balance = loser.Balance
			}
			history := &models.BalanceHistory{
				DiscordID:       bet.DiscordID,
				BalanceBefore:   balance,
				BalanceAfter:    balance,
				TransactionType: models.TransactionTypeBetLoss,
				TransactionMetadata: map[string]any{
					"side":  int(bet.Side),
					"stake": bet.Amount,
					"odds":  odds,
				},
				RelatedMessageID: &messageID,
			}
			if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
				return nil, fmt.Errorf("failed to record loss: %w", err)
			}
		}

		settlement.Outcomes = append(settlement.Outcomes, outcome)
	}

	if err := uow.BetRepository().MarkResolved(ctx, messageID); err != nil {
		return nil, fmt.Errorf("failed to mark bets resolved: %w", err)
	}
	if err := uow.BetRepository().DeleteByMessage(ctx, messageID); err != nil {
		return nil, fmt.Errorf("failed to delete settled bets: %w", err)
	}

	uow.EventBus().Publish(events.MatchupResolvedEvent{
		MessageID:   messageID,
		WinningSide: winningSide,
		ResolverID:  resolverID,
		TotalPaid:   settlement.TotalPaidOut(),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settlement, nil
}
