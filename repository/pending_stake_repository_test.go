package repository

import (
	"context"
	"testing"
	"time"

	"betsbot/models"
	"betsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingStakeRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPendingStakeRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates a prompt", func(t *testing.T) {
		stake := testutil.CreateTestPendingStake(111, 9001, models.SideOne)
		require.NoError(t, repo.Upsert(ctx, stake))
		assert.False(t, stake.CreatedAt.IsZero())

		found, err := repo.GetByUser(ctx, 111)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(9001), found.MessageID)
		assert.Equal(t, models.SideOne, found.Side)
	})

	t.Run("a newer prompt replaces the old one", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestPendingStake(222, 9002, models.SideOne)))
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestPendingStake(222, 9003, models.SideTwo)))

		found, err := repo.GetByUser(ctx, 222)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(9003), found.MessageID)
		assert.Equal(t, models.SideTwo, found.Side)
	})

	t.Run("unknown user returns nil", func(t *testing.T) {
		found, err := repo.GetByUser(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestPendingStakeRepository_Delete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPendingStakeRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestPendingStake(111, 9001, models.SideOne)))
	require.NoError(t, repo.Delete(ctx, 111))

	found, err := repo.GetByUser(ctx, 111)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Deleting again is fine
	require.NoError(t, repo.Delete(ctx, 111))
}

func TestPendingStakeRepository_DeleteExpired(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPendingStakeRepository(testDB.DB)
	ctx := context.Background()

	fresh := testutil.CreateTestPendingStake(111, 9001, models.SideOne)
	require.NoError(t, repo.Upsert(ctx, fresh))

	stale := testutil.CreateTestPendingStake(222, 9002, models.SideTwo)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Upsert(ctx, stale))

	expired, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, int64(222), expired[0].DiscordID)

	// The fresh prompt survives the sweep
	found, err := repo.GetByUser(ctx, 111)
	require.NoError(t, err)
	assert.NotNil(t, found)

	found, err = repo.GetByUser(ctx, 222)
	require.NoError(t, err)
	assert.Nil(t, found)
}
