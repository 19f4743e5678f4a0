package repository

import (
	"context"
	"testing"
	"time"

	"betsbot/config"
	"betsbot/events"
	"betsbot/models"
	"betsbot/repository/testutil"
	"betsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationConfig() *config.Config {
	return &config.Config{
		StartingBalance: 100,
		MinStake:        1,
		PendingStakeTTL: 30 * time.Minute,
	}
}

// Full lifecycle against a real database: first touch grants the starting
// balance, placing a bet debits the stake, and winning unopposed doubles it.
func TestBettingLifecycle_SoleWinner(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cfg := integrationConfig()
	eventBus := events.NewBus()
	uowFactory := NewUnitOfWorkFactory(testDB.DB, eventBus)
	userService := service.NewUserService(uowFactory, cfg)
	bettingService := service.NewBettingService(uowFactory, cfg)
	settlementService := service.NewSettlementService(uowFactory)

	user, err := userService.GetOrCreateUser(ctx, 111, "bettor")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)

	receipt, err := bettingService.PlaceBet(ctx, 9001, 111, models.SideOne, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), receipt.NewBalance)
	assert.True(t, receipt.RecordBroken)

	settlement, err := settlementService.Resolve(ctx, 9001, models.SideOne, 999)
	require.NoError(t, err)
	assert.Equal(t, 1.0, settlement.Odds)
	require.Len(t, settlement.Outcomes, 1)
	assert.Equal(t, int64(80), settlement.Outcomes[0].Payout)

	users := NewUserRepository(testDB.DB)
	after, err := users.GetByDiscordID(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(140), after.Balance)

	// Settled bets are gone; the ledger keeps the story
	bets := NewBetRepository(testDB.DB)
	remaining, err := bets.GetByMessage(ctx, 9001)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	ledger := NewBalanceHistoryRepository(testDB.DB)
	entries, err := ledger.GetByUser(ctx, 111, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.TransactionTypeBetPayout, entries[0].TransactionType)
	assert.Equal(t, models.TransactionTypeBetStake, entries[1].TransactionType)
	assert.Equal(t, models.TransactionTypeInitial, entries[2].TransactionType)
}

// Two-sided settlement pays winners out of the losing pool and leaves losers
// at their post-stake balance.
func TestBettingLifecycle_TwoSides(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cfg := integrationConfig()
	eventBus := events.NewBus()
	uowFactory := NewUnitOfWorkFactory(testDB.DB, eventBus)
	userService := service.NewUserService(uowFactory, cfg)
	bettingService := service.NewBettingService(uowFactory, cfg)
	settlementService := service.NewSettlementService(uowFactory)

	for _, id := range []int64{111, 222} {
		_, err := userService.GetOrCreateUser(ctx, id, "bettor")
		require.NoError(t, err)
	}

	_, err := bettingService.PlaceBet(ctx, 9002, 111, models.SideOne, 30)
	require.NoError(t, err)
	_, err = bettingService.PlaceBet(ctx, 9002, 222, models.SideTwo, 90)
	require.NoError(t, err)

	// Losing pool 90 against winning pool 30 clamps to even odds
	settlement, err := settlementService.Resolve(ctx, 9002, models.SideOne, 999)
	require.NoError(t, err)
	assert.Equal(t, 1.0, settlement.Odds)

	users := NewUserRepository(testDB.DB)

	winner, err := users.GetByDiscordID(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(130), winner.Balance)

	loser, err := users.GetByDiscordID(ctx, 222)
	require.NoError(t, err)
	assert.Equal(t, int64(10), loser.Balance)

	// Double resolve is rejected
	_, err = settlementService.Resolve(ctx, 9002, models.SideOne, 999)
	assert.ErrorIs(t, err, service.ErrNoBets)
}

// The reaction flow persisted end to end: prompt, confirm, and the prompt row
// is cleared by the confirmation.
func TestBettingLifecycle_PendingStakeFlow(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cfg := integrationConfig()
	eventBus := events.NewBus()
	uowFactory := NewUnitOfWorkFactory(testDB.DB, eventBus)
	userService := service.NewUserService(uowFactory, cfg)
	bettingService := service.NewBettingService(uowFactory, cfg)

	_, err := userService.GetOrCreateUser(ctx, 111, "bettor")
	require.NoError(t, err)

	_, err = bettingService.StartPendingStake(ctx, 111, 9003, 42, models.SideTwo)
	require.NoError(t, err)

	// An oversized stake keeps the prompt open
	_, err = bettingService.ConfirmPendingStake(ctx, 111, 500)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	pending, err := bettingService.GetPendingStake(ctx, 111)
	require.NoError(t, err)
	require.NotNil(t, pending)

	receipt, err := bettingService.ConfirmPendingStake(ctx, 111, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(75), receipt.NewBalance)
	assert.Equal(t, models.SideTwo, receipt.Bet.Side)

	pending, err = bettingService.GetPendingStake(ctx, 111)
	require.NoError(t, err)
	assert.Nil(t, pending)
}
