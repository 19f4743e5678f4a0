package repository

import (
	"context"
	"testing"

	"betsbot/models"
	"betsbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	seedUser(t, users, 111, 100)

	t.Run("records an entry", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(111, models.TransactionTypeBetStake)
		messageID := int64(9001)
		history.RelatedMessageID = &messageID

		require.NoError(t, repo.Record(ctx, history))
		assert.NotZero(t, history.ID)
		assert.False(t, history.CreatedAt.IsZero())
	})

	t.Run("nil metadata is allowed", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(111, models.TransactionTypeInitial)
		history.TransactionMetadata = nil

		require.NoError(t, repo.Record(ctx, history))
	})
}

func TestBalanceHistoryRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	seedUser(t, users, 111, 100)
	seedUser(t, users, 222, 100)

	for _, transactionType := range []models.TransactionType{
		models.TransactionTypeInitial,
		models.TransactionTypeBetStake,
		models.TransactionTypeBetPayout,
	} {
		require.NoError(t, repo.Record(ctx, testutil.CreateTestBalanceHistory(111, transactionType)))
	}
	require.NoError(t, repo.Record(ctx, testutil.CreateTestBalanceHistory(222, models.TransactionTypeInitial)))

	t.Run("returns newest first, scoped to the user", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 111, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, models.TransactionTypeBetPayout, entries[0].TransactionType)
		assert.Equal(t, true, entries[0].TransactionMetadata["test"])
	})

	t.Run("respects the limit", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 111, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown user returns nothing", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 999999, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
