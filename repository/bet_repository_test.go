package repository

import (
	"context"
	"testing"

	"betsbot/models"
	"betsbot/repository/testutil"
	"betsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, users *UserRepository, discordID, balance int64) {
	t.Helper()
	_, _, err := users.GetOrCreate(context.Background(), discordID, "user", balance)
	require.NoError(t, err)
}

func TestBetRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		seedUser(t, users, 111, 100)

		bet := testutil.CreateTestBet(9001, 111, models.SideOne, 40)
		err := repo.Create(ctx, bet)
		require.NoError(t, err)
		assert.False(t, bet.CreatedAt.IsZero())
	})

	t.Run("second bet on the same matchup is rejected", func(t *testing.T) {
		seedUser(t, users, 222, 100)

		err := repo.Create(ctx, testutil.CreateTestBet(9002, 222, models.SideOne, 10))
		require.NoError(t, err)

		err = repo.Create(ctx, testutil.CreateTestBet(9002, 222, models.SideTwo, 20))
		assert.ErrorIs(t, err, service.ErrDuplicateBet)

		// The original bet is untouched
		bet, err := repo.GetByMessageAndUser(ctx, 9002, 222)
		require.NoError(t, err)
		require.NotNil(t, bet)
		assert.Equal(t, models.SideOne, bet.Side)
		assert.Equal(t, int64(10), bet.Amount)
	})

	t.Run("same user can bet on different matchups", func(t *testing.T) {
		seedUser(t, users, 333, 100)

		require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9003, 333, models.SideOne, 10)))
		require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9004, 333, models.SideTwo, 20)))
	})
}

func TestBetRepository_GetByMessage(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no bets", func(t *testing.T) {
		bets, err := repo.GetByMessage(ctx, 9100)
		require.NoError(t, err)
		assert.Empty(t, bets)
	})

	t.Run("returns bets oldest first", func(t *testing.T) {
		seedUser(t, users, 111, 100)
		seedUser(t, users, 222, 100)
		seedUser(t, users, 333, 100)

		require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9101, 111, models.SideOne, 30)))
		require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9101, 222, models.SideTwo, 100)))
		require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9101, 333, models.SideOne, 270)))

		bets, err := repo.GetByMessage(ctx, 9101)
		require.NoError(t, err)
		require.Len(t, bets, 3)

		assert.Equal(t, int64(111), bets[0].DiscordID)
		assert.Equal(t, int64(333), bets[2].DiscordID)
		assert.Equal(t, int64(300), models.SideTotal(bets, models.SideOne))
		assert.Equal(t, int64(100), models.SideTotal(bets, models.SideTwo))
	})
}

func TestBetRepository_MarkResolvedAndDelete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	seedUser(t, users, 111, 100)
	seedUser(t, users, 222, 100)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9201, 111, models.SideOne, 10)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9201, 222, models.SideTwo, 20)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestBet(9202, 111, models.SideOne, 5)))

	require.NoError(t, repo.MarkResolved(ctx, 9201))

	bets, err := repo.GetByMessage(ctx, 9201)
	require.NoError(t, err)
	for _, bet := range bets {
		assert.True(t, bet.Resolved)
	}

	require.NoError(t, repo.DeleteByMessage(ctx, 9201))

	bets, err = repo.GetByMessage(ctx, 9201)
	require.NoError(t, err)
	assert.Empty(t, bets)

	// Other matchups are untouched
	other, err := repo.GetByMessageAndUser(ctx, 9202, 111)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.False(t, other.Resolved)
}
