package application

import (
	"context"
	"errors"
	"testing"

	"nexus/domain/entities"
	"nexus/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelUpHandler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	event := events.LevelUpEvent{GuildID: 1, UserID: 2, ChannelID: 3, OldLevel: 4, NewLevel: 5}

	t.Run("posts and invalidates", func(t *testing.T) {
		t.Parallel()

		poster := new(mockDiscordPoster)
		poster.On("PostLevelUp", ctx, int64(3), int64(2), int64(5)).Return(nil)
		cache := new(mockLeaderboardCache)
		cache.On("Invalidate", ctx, int64(1)).Return(nil)

		require.NoError(t, NewLevelUpHandler(poster, cache).HandleLevelUp(ctx, event))
		poster.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure still posts", func(t *testing.T) {
		t.Parallel()

		poster := new(mockDiscordPoster)
		poster.On("PostLevelUp", ctx, int64(3), int64(2), int64(5)).Return(nil)
		cache := new(mockLeaderboardCache)
		cache.On("Invalidate", ctx, int64(1)).Return(errors.New("redis down"))

		require.NoError(t, NewLevelUpHandler(poster, cache).HandleLevelUp(ctx, event))
		poster.AssertExpectations(t)
	})

	t.Run("wrong event type", func(t *testing.T) {
		t.Parallel()

		err := NewLevelUpHandler(new(mockDiscordPoster), new(mockLeaderboardCache)).HandleLevelUp(ctx, events.MarriageEvent{})
		assert.Error(t, err)
	})
}

func TestModerationLogHandler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	event := events.ModerationEvent{GuildID: 10, Action: entities.ModerationKick, TargetID: 2, ModeratorID: 3, Reason: "spam"}

	t.Run("posts to log channel", func(t *testing.T) {
		t.Parallel()

		logChannel := int64(99)
		uow := newStubUnitOfWork(10)
		uow.guildConfig.On("GetOrCreateGuildConfig", ctx, int64(10)).Return(&entities.GuildConfig{GuildID: 10, LogChannelID: &logChannel}, nil)

		poster := new(mockDiscordPoster)
		poster.On("PostModerationLog", ctx, logChannel, event).Return(nil)

		handler := NewModerationLogHandler(&stubUnitOfWorkFactory{units: map[int64]*stubUnitOfWork{10: uow}}, poster)
		require.NoError(t, handler.HandleModeration(ctx, event))
		poster.AssertExpectations(t)
	})

	t.Run("skips without log channel", func(t *testing.T) {
		t.Parallel()

		uow := newStubUnitOfWork(10)
		uow.guildConfig.On("GetOrCreateGuildConfig", ctx, int64(10)).Return(&entities.GuildConfig{GuildID: 10}, nil)

		poster := new(mockDiscordPoster)
		handler := NewModerationLogHandler(&stubUnitOfWorkFactory{units: map[int64]*stubUnitOfWork{10: uow}}, poster)
		require.NoError(t, handler.HandleModeration(ctx, event))
		poster.AssertNotCalled(t, "PostModerationLog")
	})
}

type recordingRegistrar struct {
	registered []events.EventType
}

func (r *recordingRegistrar) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	r.registered = append(r.registered, eventType)
}

func TestRegisterApplicationSubscriptions(t *testing.T) {
	t.Parallel()

	registrar := &recordingRegistrar{}
	RegisterApplicationSubscriptions(registrar, &stubUnitOfWorkFactory{}, new(mockDiscordPoster), new(mockLeaderboardCache))

	assert.ElementsMatch(t, []events.EventType{
		events.EventTypeLevelUp,
		events.EventTypeModeration,
		events.EventTypeBalanceChange,
	}, registrar.registered)

	assert.NoError(t, HandleBalanceChange(context.Background(), events.BalanceChangeEvent{TransactionType: entities.TransactionTypeDaily}))
}
