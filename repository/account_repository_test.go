package repository

import (
	"context"
	"testing"

	"nexus/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, testGuildID)
	otherGuild := NewAccountRepository(testDB.DB, testGuildID+1)
	ctx := context.Background()

	t.Run("absent account reads as zero without a row", func(t *testing.T) {
		account, err := repo.Get(ctx, 111)
		require.NoError(t, err)
		assert.Equal(t, int64(0), account.Balance)
		assert.Equal(t, testGuildID, account.GuildID)

		var count int
		err = testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM economy WHERE user_id = 111`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("add balance creates and accumulates", func(t *testing.T) {
		account, err := repo.AddBalance(ctx, 222, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(500), account.Balance)

		account, err = repo.AddBalance(ctx, 222, -700)
		require.NoError(t, err)
		assert.Equal(t, int64(-200), account.Balance)
	})

	t.Run("set balance overwrites", func(t *testing.T) {
		account, err := repo.SetBalance(ctx, 222, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), account.Balance)

		account, err = repo.Get(ctx, 222)
		require.NoError(t, err)
		assert.Equal(t, int64(42), account.Balance)
	})

	t.Run("get for update materializes the row", func(t *testing.T) {
		account, err := repo.GetForUpdate(ctx, 333)
		require.NoError(t, err)
		assert.Equal(t, int64(0), account.Balance)

		var count int
		err = testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM economy WHERE user_id = 333`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("balances are per guild", func(t *testing.T) {
		_, err := otherGuild.AddBalance(ctx, 222, 1000)
		require.NoError(t, err)

		account, err := repo.Get(ctx, 222)
		require.NoError(t, err)
		assert.Equal(t, int64(42), account.Balance)
	})
}
