package entities

import "time"

// CooldownAction names a throttled action
type CooldownAction string

const (
	CooldownDaily CooldownAction = "daily"
	CooldownWork  CooldownAction = "work"
	CooldownRob   CooldownAction = "rob"
)

// CooldownEntry is the last successful use of an action
type CooldownEntry struct {
	UserID   int64          `db:"user_id"`
	GuildID  int64          `db:"guild_id"`
	Action   CooldownAction `db:"action"`
	LastTime time.Time      `db:"last_time"`
}
