package interfaces

import (
	"context"

	"nexus/domain/entities"
)

// LeaderboardCache stores rendered leaderboard rows between level changes
type LeaderboardCache interface {
	// Get returns the cached rows and whether they were present
	Get(ctx context.Context, guildID int64, limit int) ([]*entities.RankEntry, bool, error)

	// Set stores rows for a guild and limit
	Set(ctx context.Context, guildID int64, limit int, entries []*entities.RankEntry) error

	// Invalidate drops every cached leaderboard of the guild
	Invalidate(ctx context.Context, guildID int64) error
}
