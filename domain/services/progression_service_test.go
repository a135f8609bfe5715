package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestXPThreshold_StrictlyIncreasing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(100), XPThreshold(0))
	assert.Equal(t, int64(150), XPThreshold(1))
	for level := int64(0); level < 500; level++ {
		assert.Greater(t, XPThreshold(level+1), XPThreshold(level), "level %d", level)
	}
}

func TestApplyAward(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		xp, level     int64
		award         int64
		wantXP        int64
		wantLevel     int64
		wantLeveledUp bool
	}{
		{name: "exactly reaches first threshold", xp: 0, level: 0, award: 100, wantXP: 0, wantLevel: 1, wantLeveledUp: true},
		{name: "crosses two thresholds at once", xp: 0, level: 0, award: 250, wantXP: 0, wantLevel: 2, wantLeveledUp: true},
		{name: "one short of threshold", xp: 0, level: 0, award: 99, wantXP: 99, wantLevel: 0},
		{name: "carries remainder", xp: 90, level: 0, award: 15, wantXP: 5, wantLevel: 1, wantLeveledUp: true},
		{name: "higher level threshold", xp: 240, level: 3, award: 15, wantXP: 5, wantLevel: 4, wantLeveledUp: true},
		{name: "zero award is a no-op", xp: 42, level: 2, award: 0, wantXP: 42, wantLevel: 2},
		{name: "negative award never loops", xp: 10, level: 1, award: -20, wantXP: -10, wantLevel: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			xp, level, up := ApplyAward(tt.xp, tt.level, tt.award)
			assert.Equal(t, tt.wantXP, xp)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantLeveledUp, up)
			assert.Less(t, xp, XPThreshold(level), "xp must stay below the threshold of the resulting level")
		})
	}
}

func TestProgressionService_AwardMessageXP(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	const userID, channelID, guildID = int64(11), int64(22), int64(33)

	t.Run("first message is awarded", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		repo := new(testhelpers.MockProgressionRepository)
		publisher := new(testhelpers.MockEventPublisher)

		repo.On("GetForUpdate", ctx, userID).Return(&entities.ProgressionRecord{
			UserID: userID, GuildID: guildID, LastMessageTime: time.Unix(0, 0),
		}, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(r *entities.ProgressionRecord) bool {
			return r.XP == 15 && r.Level == 0 && r.LastMessageTime.Equal(now)
		})).Return(nil)

		service := NewProgressionService(repo, publisher, DefaultProgressionSettings())
		result, err := service.AwardMessageXP(ctx, userID, channelID, now)

		require.NoError(t, err)
		assert.True(t, result.Awarded)
		assert.False(t, result.LeveledUp)
		repo.AssertExpectations(t)
		publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("cooldown suppresses award", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		repo := new(testhelpers.MockProgressionRepository)
		publisher := new(testhelpers.MockEventPublisher)

		repo.On("GetForUpdate", ctx, userID).Return(&entities.ProgressionRecord{
			UserID: userID, GuildID: guildID, XP: 30, LastMessageTime: now.Add(-59 * time.Second),
		}, nil)

		service := NewProgressionService(repo, publisher, DefaultProgressionSettings())
		result, err := service.AwardMessageXP(ctx, userID, channelID, now)

		require.NoError(t, err)
		assert.False(t, result.Awarded)
		assert.Equal(t, int64(30), result.Record.XP)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cooldown boundary is inclusive", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		repo := new(testhelpers.MockProgressionRepository)
		publisher := new(testhelpers.MockEventPublisher)

		repo.On("GetForUpdate", ctx, userID).Return(&entities.ProgressionRecord{
			UserID: userID, GuildID: guildID, LastMessageTime: now.Add(-60 * time.Second),
		}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		service := NewProgressionService(repo, publisher, DefaultProgressionSettings())
		result, err := service.AwardMessageXP(ctx, userID, channelID, now)

		require.NoError(t, err)
		assert.True(t, result.Awarded)
	})

	t.Run("level up publishes event with originating channel", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		repo := new(testhelpers.MockProgressionRepository)
		publisher := new(testhelpers.MockEventPublisher)

		repo.On("GetForUpdate", ctx, userID).Return(&entities.ProgressionRecord{
			UserID: userID, GuildID: guildID, XP: 140, Level: 1, LastMessageTime: now.Add(-time.Hour),
		}, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(r *entities.ProgressionRecord) bool {
			return r.XP == 5 && r.Level == 2
		})).Return(nil)
		publisher.On("Publish", events.LevelUpEvent{
			GuildID: guildID, UserID: userID, ChannelID: channelID, OldLevel: 1, NewLevel: 2,
		}).Return(nil)

		service := NewProgressionService(repo, publisher, DefaultProgressionSettings())
		result, err := service.AwardMessageXP(ctx, userID, channelID, now)

		require.NoError(t, err)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, int64(1), result.OldLevel)
		publisher.AssertExpectations(t)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		repo := new(testhelpers.MockProgressionRepository)
		publisher := new(testhelpers.MockEventPublisher)

		repo.On("GetForUpdate", ctx, userID).Return(nil, errors.New("connection refused"))

		service := NewProgressionService(repo, publisher, DefaultProgressionSettings())
		_, err := service.AwardMessageXP(ctx, userID, channelID, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load progression")
	})
}

func TestProgressionService_GetRankInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(testhelpers.MockProgressionRepository)
	repo.On("Get", ctx, int64(5)).Return(&entities.ProgressionRecord{UserID: 5, XP: 70, Level: 2}, nil)
	repo.On("GetRank", ctx, int64(5)).Return(3, nil)

	service := NewProgressionService(repo, new(testhelpers.MockEventPublisher), DefaultProgressionSettings())
	info, err := service.GetRankInfo(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, 3, info.Rank)
	assert.Equal(t, int64(200), info.NextThreshold)
	assert.Equal(t, int64(70), info.Record.XP)
}

func TestProgressionService_GetLeaderboard_DefaultLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	entries := []*entities.RankEntry{{Rank: 1, UserID: 1, Level: 4}}
	repo := new(testhelpers.MockProgressionRepository)
	repo.On("GetLeaderboard", ctx, DefaultLeaderboardSize).Return(entries, nil)

	service := NewProgressionService(repo, new(testhelpers.MockEventPublisher), DefaultProgressionSettings())
	got, err := service.GetLeaderboard(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
