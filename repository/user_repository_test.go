package repository

import (
	"context"
	"testing"

	"betsbot/repository/testutil"
	"betsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByDiscordID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByDiscordID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, _, err := repo.GetOrCreate(ctx, 123456, "testuser", 100)
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.DiscordID, user.DiscordID)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, int64(100), user.Balance)
	})
}

func TestUserRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first access creates the row", func(t *testing.T) {
		user, created, err := repo.GetOrCreate(ctx, 111111, "newuser", 100)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.True(t, created)
		assert.Equal(t, int64(100), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("second access returns the existing row", func(t *testing.T) {
		first, created, err := repo.GetOrCreate(ctx, 222222, "someuser", 100)
		require.NoError(t, err)
		assert.True(t, created)

		// Balance survives, username tracks the latest value
		_, err = repo.AddBalance(ctx, 222222, 50)
		require.NoError(t, err)

		second, created, err := repo.GetOrCreate(ctx, 222222, "renamed", 100)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.DiscordID, second.DiscordID)
		assert.Equal(t, "renamed", second.Username)
		assert.Equal(t, int64(150), second.Balance)
	})

	t.Run("initial balance below the floor is clamped", func(t *testing.T) {
		user, _, err := repo.GetOrCreate(ctx, 333333, "pauper", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.Balance)
	})
}

func TestUserRepository_AddBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("credits and returns the new balance", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 111111, "winner", 60)
		require.NoError(t, err)

		newBalance, err := repo.AddBalance(ctx, 111111, 80)
		require.NoError(t, err)
		assert.Equal(t, int64(140), newBalance)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, 999999, 10)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, 111111, 0)
		assert.Error(t, err)
	})
}

func TestUserRepository_DeductStake(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("debits the stake", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 111111, "bettor", 100)
		require.NoError(t, err)

		newBalance, err := repo.DeductStake(ctx, 111111, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(60), newBalance)
	})

	t.Run("stake above balance fails", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 222222, "broke", 25)
		require.NoError(t, err)

		_, err = repo.DeductStake(ctx, 222222, 40)
		assert.ErrorIs(t, err, service.ErrInsufficientBalance)

		// Balance untouched by the failed deduction
		user, err := repo.GetByDiscordID(ctx, 222222)
		require.NoError(t, err)
		assert.Equal(t, int64(25), user.Balance)
	})

	t.Run("staking the whole balance leaves the floor", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 333333, "allin", 100)
		require.NoError(t, err)

		newBalance, err := repo.DeductStake(ctx, 333333, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), newBalance)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.DeductStake(ctx, 999999, 10)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestUserRepository_AdjustBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("positive delta", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 111111, "target", 100)
		require.NoError(t, err)

		newBalance, err := repo.AdjustBalance(ctx, 111111, 250)
		require.NoError(t, err)
		assert.Equal(t, int64(350), newBalance)
	})

	t.Run("negative delta clamps at the floor", func(t *testing.T) {
		_, _, err := repo.GetOrCreate(ctx, 222222, "target2", 100)
		require.NoError(t, err)

		newBalance, err := repo.AdjustBalance(ctx, 222222, -500)
		require.NoError(t, err)
		assert.Equal(t, int64(1), newBalance)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.AdjustBalance(ctx, 999999, 10)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestUserRepository_GetTopBalances(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	for id, balance := range map[int64]int64{
		1: 500,
		2: 900,
		3: 100,
		4: 700,
	} {
		_, _, err := repo.GetOrCreate(ctx, id, "user", balance)
		require.NoError(t, err)
	}

	top, err := repo.GetTopBalances(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, int64(900), top[0].Balance)
	assert.Equal(t, int64(700), top[1].Balance)
	assert.Equal(t, int64(500), top[2].Balance)
}
