package entities

import "time"

// ProgressionRecord tracks XP and level for a user within one guild
type ProgressionRecord struct {
	UserID          int64     `db:"user_id"`
	GuildID         int64     `db:"guild_id"`
	XP              int64     `db:"xp"`
	Level           int64     `db:"level"`
	LastMessageTime time.Time `db:"last_message_time"`
}

// RankEntry is one row of a guild leaderboard
type RankEntry struct {
	Rank   int
	UserID int64
	XP     int64
	Level  int64
}
