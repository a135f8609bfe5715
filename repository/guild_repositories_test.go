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

func TestCooldownRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCooldownRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	entry, err := repo.Get(ctx, 111, entities.CooldownDaily)
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, repo.Upsert(ctx, 111, entities.CooldownDaily, at))
	require.NoError(t, repo.Upsert(ctx, 111, entities.CooldownDaily, at.Add(time.Hour)))

	entry, err = repo.Get(ctx, 111, entities.CooldownDaily)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, entities.CooldownDaily, entry.Action)
	assert.True(t, entry.LastTime.Equal(at.Add(time.Hour)))

	entry, err = repo.Get(ctx, 111, entities.CooldownWork)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Locking a never-used action materializes it at the epoch
	entry, err = repo.GetForUpdate(ctx, 111, entities.CooldownWork)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, testGuildID, entry.GuildID)
	assert.True(t, entry.LastTime.Equal(time.Unix(0, 0)))

	entry, err = repo.GetForUpdate(ctx, 111, entities.CooldownDaily)
	require.NoError(t, err)
	assert.True(t, entry.LastTime.Equal(at.Add(time.Hour)))
}

func TestShopRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	require.NoError(t, repo.UpsertListing(ctx, 900, 5000))
	require.NoError(t, repo.UpsertListing(ctx, 901, 1000))
	require.NoError(t, repo.UpsertListing(ctx, 900, 2500))

	listing, err := repo.GetListing(ctx, 900)
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, int64(2500), listing.Price)

	listings, err := repo.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, int64(901), listings[0].RoleID)

	deleted, err := repo.DeleteListing(ctx, 900)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteListing(ctx, 900)
	require.NoError(t, err)
	assert.False(t, deleted)

	listing, err = repo.GetListing(ctx, 900)
	require.NoError(t, err)
	assert.Nil(t, listing)
}

func TestMarriageRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMarriageRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()

	record := testutil.CreateTestMarriage(222, 111)
	require.NoError(t, repo.Create(ctx, record))
	assert.Equal(t, int64(111), record.User1ID)
	assert.Equal(t, int64(222), record.User2ID)
	assert.Equal(t, testGuildID, record.GuildID)

	for _, userID := range []int64{111, 222} {
		found, err := repo.GetByUser(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(111), found.User1ID)
	}

	// Storing the reversed pair violates the primary key
	err := repo.Create(ctx, testutil.CreateTestMarriage(111, 222))
	assert.Error(t, err)

	// Advisory locks are transaction scoped, so taking them twice outside one is harmless
	require.NoError(t, repo.LockUsers(ctx, 222, 111, 222))
	require.NoError(t, repo.LockUsers(ctx))

	require.NoError(t, repo.Delete(ctx, 222, 111))
	found, err := repo.GetByUser(ctx, 111)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGuildConfigRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	config, err := repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, config.HasLogChannel())
	assert.False(t, config.HasReportChannel())

	logChannel := int64(555)
	config.LogChannelID = &logChannel
	require.NoError(t, repo.UpdateGuildConfig(ctx, config))

	config, err = repo.GetOrCreateGuildConfig(ctx, testGuildID)
	require.NoError(t, err)
	require.True(t, config.HasLogChannel())
	assert.Equal(t, logChannel, *config.LogChannelID)

	err = repo.UpdateGuildConfig(ctx, &entities.GuildConfig{GuildID: 42})
	assert.Error(t, err)
}

func TestTicketConfigRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTicketConfigRepositoryWithTx(testDB.DB.Pool)
	ctx := context.Background()

	config, err := repo.GetTicketConfig(ctx, testGuildID)
	require.NoError(t, err)
	assert.Nil(t, config)

	require.NoError(t, repo.UpsertTicketConfig(ctx, &entities.TicketConfig{GuildID: testGuildID, SupportRoleID: 1, TicketCategoryID: 2}))
	require.NoError(t, repo.UpsertTicketConfig(ctx, &entities.TicketConfig{GuildID: testGuildID, SupportRoleID: 3, TicketCategoryID: 4}))

	config, err = repo.GetTicketConfig(ctx, testGuildID)
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, int64(3), config.SupportRoleID)
	assert.Equal(t, int64(4), config.TicketCategoryID)
}

func TestModerationRepositories(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	mutes := NewTempMuteRepositoryScoped(testDB.DB.Pool, testGuildID)
	otherMutes := NewTempMuteRepositoryScoped(testDB.DB.Pool, testGuildID+1)
	warnings := NewWarningRepositoryScoped(testDB.DB.Pool, testGuildID)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expired mutes", func(t *testing.T) {
		require.NoError(t, mutes.Upsert(ctx, 111, now.Add(-time.Minute)))
		require.NoError(t, mutes.Upsert(ctx, 222, now))
		require.NoError(t, mutes.Upsert(ctx, 333, now.Add(time.Hour)))
		require.NoError(t, otherMutes.Upsert(ctx, 111, now.Add(-time.Hour)))

		expired, err := mutes.GetExpired(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 2)
		assert.Equal(t, int64(111), expired[0].UserID)
		assert.Equal(t, int64(222), expired[1].UserID)

		guilds, err := mutes.GetGuildsWithExpiredMutes(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{testGuildID, testGuildID + 1}, guilds)

		require.NoError(t, mutes.Delete(ctx, 111))
		require.NoError(t, mutes.Delete(ctx, 111))
		expired, err = mutes.GetExpired(ctx, now)
		require.NoError(t, err)
		assert.Len(t, expired, 1)
	})

	t.Run("warnings", func(t *testing.T) {
		first := testutil.CreateTestWarning(111, 999, "spam")
		require.NoError(t, warnings.Create(ctx, first))
		assert.NotZero(t, first.ID)
		assert.False(t, first.Timestamp.IsZero())

		require.NoError(t, warnings.Create(ctx, testutil.CreateTestWarning(111, 999, "caps")))

		list, err := warnings.GetByUser(ctx, 111)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "spam", list[0].Reason)

		removed, err := warnings.DeleteByUser(ctx, 111)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		list, err = warnings.GetByUser(ctx, 111)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
