package entities

import "time"

// TempMute is an active timed mute
type TempMute struct {
	UserID     int64     `db:"user_id"`
	GuildID    int64     `db:"guild_id"`
	UnmuteTime time.Time `db:"unmute_time"`
}

// IsExpired reports whether the mute should be lifted at now
func (m *TempMute) IsExpired(now time.Time) bool {
	return !now.Before(m.UnmuteTime)
}

// Warning is a moderator warning issued to a member
type Warning struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	GuildID     int64     `db:"guild_id"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	Timestamp   time.Time `db:"timestamp"`
}

// ModerationAction names a moderation operation
type ModerationAction string

const (
	ModerationBan           ModerationAction = "ban"
	ModerationUnban         ModerationAction = "unban"
	ModerationKick          ModerationAction = "kick"
	ModerationMute          ModerationAction = "mute"
	ModerationUnmute        ModerationAction = "unmute"
	ModerationWarn          ModerationAction = "warn"
	ModerationClearWarns    ModerationAction = "clear_warnings"
	ModerationPurge         ModerationAction = "purge"
	ModerationMessageDelete ModerationAction = "message_delete"
)
