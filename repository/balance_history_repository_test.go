package repository

import (
	"context"
	"testing"
	"time"

	"nexus/domain/entities"
	"nexus/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID = int64(123456789)

func TestBalanceHistoryRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	t.Run("successful record creation", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(111, entities.TransactionTypeFlipLoss)

		err := repo.Record(ctx, history)
		require.NoError(t, err)
		assert.NotZero(t, history.ID)
		assert.Equal(t, testGuildID, history.GuildID)
		assert.False(t, history.CreatedAt.IsZero())
	})

	t.Run("record with nil metadata", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(111, entities.TransactionTypeDaily)
		history.TransactionMetadata = nil

		err := repo.Record(ctx, history)
		require.NoError(t, err)
		assert.NotZero(t, history.ID)
	})
}

func TestBalanceHistoryRepository_GetByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepositoryScoped(testDB.DB.Pool, testGuildID)
	otherGuild := NewBalanceHistoryRepositoryScoped(testDB.DB.Pool, testGuildID+1)
	ctx := context.Background()

	t.Run("no history for user", func(t *testing.T) {
		histories, err := repo.GetByUser(ctx, 111, 10)
		require.NoError(t, err)
		assert.Empty(t, histories)
	})

	t.Run("newest first and scoped to guild", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			history := testutil.CreateTestBalanceHistoryWithAmounts(222, int64(i*100), int64((i+1)*100), 100, entities.TransactionTypeWork)
			require.NoError(t, repo.Record(ctx, history))
			time.Sleep(time.Millisecond)
		}
		require.NoError(t, otherGuild.Record(ctx, testutil.CreateTestBalanceHistory(222, entities.TransactionTypeWork)))

		histories, err := repo.GetByUser(ctx, 222, 10)
		require.NoError(t, err)
		require.Len(t, histories, 5)
		assert.Equal(t, int64(500), histories[0].BalanceAfter)
		for i := 1; i < len(histories); i++ {
			assert.False(t, histories[i-1].CreatedAt.Before(histories[i].CreatedAt))
		}
	})

	t.Run("limit results", func(t *testing.T) {
		histories, err := repo.GetByUser(ctx, 222, 3)
		require.NoError(t, err)
		assert.Len(t, histories, 3)
	})

	t.Run("metadata preservation", func(t *testing.T) {
		history := testutil.CreateTestBalanceHistory(333, entities.TransactionTypeRobGain)
		history.TransactionMetadata = map[string]any{
			"target_id": "444",
			"percent":   20,
		}
		require.NoError(t, repo.Record(ctx, history))

		histories, err := repo.GetByUser(ctx, 333, 1)
		require.NoError(t, err)
		require.Len(t, histories, 1)
		assert.Equal(t, entities.TransactionTypeRobGain, histories[0].TransactionType)
		assert.Equal(t, "444", histories[0].TransactionMetadata["target_id"])
		assert.Equal(t, float64(20), histories[0].TransactionMetadata["percent"])
	})
}
