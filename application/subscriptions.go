package application

import (
	"nexus/domain/events"
	"nexus/domain/interfaces"
)

// RegisterApplicationSubscriptions registers the in-process reactions to domain events
func RegisterApplicationSubscriptions(
	registrar LocalHandlerRegistrar,
	uowFactory UnitOfWorkFactory,
	discordPoster DiscordPoster,
	cache interfaces.LeaderboardCache,
) {
	levelUpHandler := NewLevelUpHandler(discordPoster, cache)
	moderationHandler := NewModerationLogHandler(uowFactory, discordPoster)

	registrar.RegisterLocalHandler(events.EventTypeLevelUp, levelUpHandler.HandleLevelUp)
	registrar.RegisterLocalHandler(events.EventTypeModeration, moderationHandler.HandleModeration)
	registrar.RegisterLocalHandler(events.EventTypeBalanceChange, HandleBalanceChange)
}
