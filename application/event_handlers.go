package application

import (
	"context"
	"fmt"

	"nexus/domain/events"
	"nexus/domain/interfaces"
	"nexus/domain/services"
	"nexus/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// LevelUpHandler announces level ups and drops the stale leaderboard
type LevelUpHandler struct {
	poster DiscordPoster
	cache  interfaces.LeaderboardCache
}

// NewLevelUpHandler creates a new level up handler
func NewLevelUpHandler(poster DiscordPoster, cache interfaces.LeaderboardCache) *LevelUpHandler {
	return &LevelUpHandler{poster: poster, cache: cache}
}

// HandleLevelUp processes a LevelUpEvent
func (h *LevelUpHandler) HandleLevelUp(ctx context.Context, event events.Event) error {
	levelUp, ok := event.(events.LevelUpEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	observability.GetMetrics().RecordLevelUp()

	if err := h.cache.Invalidate(ctx, levelUp.GuildID); err != nil {
		// A stale board expires on its own TTL
		log.WithFields(log.Fields{
			"guildID": levelUp.GuildID,
			"error":   err,
		}).Warn("Failed to invalidate leaderboard cache")
	}

	if err := h.poster.PostLevelUp(ctx, levelUp.ChannelID, levelUp.UserID, levelUp.NewLevel); err != nil {
		return fmt.Errorf("failed to post level up: %w", err)
	}
	return nil
}

// ModerationLogHandler mirrors moderation events into the guild's log channel
type ModerationLogHandler struct {
	uowFactory UnitOfWorkFactory
	poster     DiscordPoster
}

// NewModerationLogHandler creates a new moderation log handler
func NewModerationLogHandler(uowFactory UnitOfWorkFactory, poster DiscordPoster) *ModerationLogHandler {
	return &ModerationLogHandler{uowFactory: uowFactory, poster: poster}
}

// HandleModeration processes a ModerationEvent
func (h *ModerationLogHandler) HandleModeration(ctx context.Context, event events.Event) error {
	moderation, ok := event.(events.ModerationEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	observability.GetMetrics().RecordModerationAction(string(moderation.Action))

	uow := h.uowFactory.CreateForGuild(moderation.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := services.NewGuildConfigService(uow.GuildConfigRepository()).GetOrCreate(ctx, moderation.GuildID)
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !config.HasLogChannel() {
		log.WithFields(log.Fields{
			"guildID": moderation.GuildID,
			"action":  moderation.Action,
		}).Debug("No log channel configured, skipping moderation log")
		return nil
	}

	return h.poster.PostModerationLog(ctx, *config.LogChannelID, moderation)
}

// HandleBalanceChange counts balance changes by transaction type
func HandleBalanceChange(ctx context.Context, event events.Event) error {
	change, ok := event.(events.BalanceChangeEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	observability.GetMetrics().RecordBalanceTransaction(change.TransactionType.String())
	return nil
}
