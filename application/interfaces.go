package application

import (
	"context"

	"nexus/domain/events"
)

// DiscordPoster defines the interface for posting messages to Discord.
// It keeps the application layer free of discordgo.
type DiscordPoster interface {
	// PostLevelUp congratulates a user in the channel where the level was earned
	PostLevelUp(ctx context.Context, channelID, userID, level int64) error

	// PostModerationLog writes a moderation entry to a log channel
	PostModerationLog(ctx context.Context, channelID int64, event events.ModerationEvent) error
}

// MuteRoleManager removes the mute role from a member
type MuteRoleManager interface {
	RemoveMuteRole(ctx context.Context, guildID, userID int64) error
}

// LocalHandlerRegistrar registers in-process event handlers
type LocalHandlerRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}
