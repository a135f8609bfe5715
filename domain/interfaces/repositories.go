package interfaces

import (
	"context"
	"time"

	"nexus/domain/entities"
	"nexus/domain/events"
)

// AccountRepository defines the interface for guild-scoped balance data access.
// Reads never materialize rows; the first mutation does.
type AccountRepository interface {
	// Get returns the user's account, or a zero-balance account when no row exists
	Get(ctx context.Context, userID int64) (*entities.Account, error)

	// GetForUpdate materializes the account row if needed and locks it until the transaction ends
	GetForUpdate(ctx context.Context, userID int64) (*entities.Account, error)

	// AddBalance atomically applies delta to the balance and returns the resulting account
	AddBalance(ctx context.Context, userID int64, delta int64) (*entities.Account, error)

	// SetBalance overwrites the balance and returns the resulting account
	SetBalance(ctx context.Context, userID int64, amount int64) (*entities.Account, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns the most recent balance history for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)
}

// ProgressionRepository defines the interface for XP and level data access
type ProgressionRepository interface {
	// Get returns the user's record, or a zero-valued record when no row exists
	Get(ctx context.Context, userID int64) (*entities.ProgressionRecord, error)

	// GetForUpdate materializes the record if needed and locks it until the transaction ends
	GetForUpdate(ctx context.Context, userID int64) (*entities.ProgressionRecord, error)

	// Save upserts xp, level and last message time
	Save(ctx context.Context, record *entities.ProgressionRecord) error

	// GetLeaderboard returns the top users ordered by level then xp
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.RankEntry, error)

	// GetRank returns the 1-based position of the user, or 0 when the user has no record
	GetRank(ctx context.Context, userID int64) (int, error)
}

// CooldownRepository defines the interface for per-action cooldown timestamps
type CooldownRepository interface {
	// Get returns the cooldown entry or nil when the action was never recorded
	Get(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error)

	// GetForUpdate materializes an epoch entry if needed and locks it until the transaction ends
	GetForUpdate(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error)

	// Upsert records the last time the action ran
	Upsert(ctx context.Context, userID int64, action entities.CooldownAction, at time.Time) error
}

// ShopRepository defines the interface for role shop listings
type ShopRepository interface {
	// GetListing returns the listing for a role or nil when the role is not for sale
	GetListing(ctx context.Context, roleID int64) (*entities.ShopListing, error)

	// ListListings returns the guild's listings ordered by price
	ListListings(ctx context.Context) ([]*entities.ShopListing, error)

	// UpsertListing creates or reprices a listing
	UpsertListing(ctx context.Context, roleID int64, price int64) error

	// DeleteListing removes a listing and reports whether one existed
	DeleteListing(ctx context.Context, roleID int64) (bool, error)
}

// MarriageRepository defines the interface for marriage records
type MarriageRepository interface {
	// GetByUser returns the marriage either side of which is the user, or nil
	GetByUser(ctx context.Context, userID int64) (*entities.MarriageRecord, error)

	// LockUsers serializes marriage changes touching any of the users until the transaction ends
	LockUsers(ctx context.Context, userIDs ...int64) error

	// Create stores a canonical pair
	Create(ctx context.Context, record *entities.MarriageRecord) error

	// Delete removes a canonical pair
	Delete(ctx context.Context, user1ID, user2ID int64) error
}

// GuildConfigRepository defines the interface for guild configuration data access
type GuildConfigRepository interface {
	// GetOrCreateGuildConfig retrieves guild config or creates an empty one if not found
	GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error)

	// UpdateGuildConfig updates guild config
	UpdateGuildConfig(ctx context.Context, config *entities.GuildConfig) error
}

// TempMuteRepository defines the interface for timed mutes
type TempMuteRepository interface {
	// Upsert stores or extends a mute for a user
	Upsert(ctx context.Context, userID int64, unmuteTime time.Time) error

	// Delete removes a user's mute
	Delete(ctx context.Context, userID int64) error

	// GetExpired returns the guild's mutes whose unmute time is at or before now
	GetExpired(ctx context.Context, now time.Time) ([]*entities.TempMute, error)

	// GetGuildsWithExpiredMutes returns guild IDs holding at least one expired mute
	GetGuildsWithExpiredMutes(ctx context.Context, now time.Time) ([]int64, error)
}

// WarningRepository defines the interface for moderation warnings
type WarningRepository interface {
	// Create stores a warning and fills its ID and timestamp
	Create(ctx context.Context, warning *entities.Warning) error

	// GetByUser returns the user's warnings, oldest first
	GetByUser(ctx context.Context, userID int64) ([]*entities.Warning, error)

	// DeleteByUser removes every warning of the user and returns how many were removed
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// TicketConfigRepository defines the interface for ticket setup data access
type TicketConfigRepository interface {
	// GetTicketConfig returns the guild's ticket config or nil if never set up
	GetTicketConfig(ctx context.Context, guildID int64) (*entities.TicketConfig, error)

	// UpsertTicketConfig stores the ticket config
	UpsertTicketConfig(ctx context.Context, config *entities.TicketConfig) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction settles
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events
	Flush(ctx context.Context) error

	// Discard drops all pending events
	Discard()
}
