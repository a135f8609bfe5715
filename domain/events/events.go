package events

import "nexus/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLevelUp       EventType = "level_up"
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeMarriage      EventType = "marriage"
	EventTypeModeration    EventType = "moderation"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LevelUpEvent is raised when an XP award crosses one or more level thresholds
type LevelUpEvent struct {
	GuildID   int64 `json:"guild_id"`
	UserID    int64 `json:"user_id"`
	ChannelID int64 `json:"channel_id"` // channel the qualifying message came from
	OldLevel  int64 `json:"old_level"`
	NewLevel  int64 `json:"new_level"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                    `json:"user_id"`
	GuildID         int64                    `json:"guild_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                    `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// MarriageEvent is raised when a pair marries or divorces
type MarriageEvent struct {
	GuildID int64 `json:"guild_id"`
	User1ID int64 `json:"user1_id"`
	User2ID int64 `json:"user2_id"`
	Married bool  `json:"married"`
}

func (e MarriageEvent) Type() EventType {
	return EventTypeMarriage
}

// ModerationEvent records a moderation action for the guild log channel
type ModerationEvent struct {
	GuildID     int64                     `json:"guild_id"`
	Action      entities.ModerationAction `json:"action"`
	TargetID    int64                     `json:"target_id"`
	ModeratorID int64                     `json:"moderator_id"`
	Reason      string                    `json:"reason,omitempty"`
	Detail      string                    `json:"detail,omitempty"`
}

func (e ModerationEvent) Type() EventType {
	return EventTypeModeration
}
