package interfaces

import (
	"context"
	"time"

	"nexus/domain/entities"
)

// XPAwardResult describes the outcome of a message XP award
type XPAwardResult struct {
	// Awarded is false when the chat cooldown suppressed the award
	Awarded   bool
	Record    *entities.ProgressionRecord
	OldLevel  int64
	LeveledUp bool
}

// RankInfo is a user's progression together with its leaderboard position
type RankInfo struct {
	Record        *entities.ProgressionRecord
	Rank          int
	NextThreshold int64
}

// ProgressionService defines the interface for XP and level operations
type ProgressionService interface {
	// AwardMessageXP grants message XP if the chat cooldown allows it and raises a level-up event on a crossed threshold
	AwardMessageXP(ctx context.Context, userID, channelID int64, now time.Time) (*XPAwardResult, error)

	// GetRankInfo returns the user's progression and leaderboard rank
	GetRankInfo(ctx context.Context, userID int64) (*RankInfo, error)

	// GetLeaderboard returns the top users of the guild
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.RankEntry, error)
}

// CooldownResult is the answer of a cooldown check
type CooldownResult struct {
	Allowed   bool
	Remaining time.Duration
}

// CooldownService defines the interface for per-action rate limiting
type CooldownService interface {
	// Check reports whether the action may run at now. It never records anything.
	Check(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*CooldownResult, error)

	// Acquire locks the user's entry for the action and checks it. Concurrent claims
	// of the same action serialize, so only one of them can see it allowed.
	Acquire(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*CooldownResult, error)

	// Record marks the action as used at now
	Record(ctx context.Context, userID int64, action entities.CooldownAction, now time.Time) error
}

// LedgerService defines the interface for balance mutations
type LedgerService interface {
	// GetBalance returns the user's balance, zero if the user never had one
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// Add applies delta without a floor and returns the new balance
	Add(ctx context.Context, userID int64, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// Set overwrites the balance and returns the resulting value
	Set(ctx context.Context, userID int64, amount int64) (int64, error)

	// LockBalance locks the account for the rest of the transaction and returns its balance
	LockBalance(ctx context.Context, userID int64) (int64, error)

	// RequireFunds locks the account and fails with an InsufficientFundsError when it cannot cover amount
	RequireFunds(ctx context.Context, userID int64, amount int64) (int64, error)

	// Debit locks the account, checks funds and subtracts amount
	Debit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)
}

// FlipResult is the outcome of a coin flip
type FlipResult struct {
	Choice     string
	Outcome    string
	Won        bool
	Amount     int64
	NewBalance int64
}

// SlotsResult is the outcome of a slots spin
type SlotsResult struct {
	Reels      [3]string
	Multiplier int64
	Net        int64
	NewBalance int64
}

// RobResult is the outcome of a rob attempt
type RobResult struct {
	Success       bool
	Amount        int64
	ActorBalance  int64
	TargetBalance int64
}

// RewardResult is the outcome of a daily or work claim
type RewardResult struct {
	Amount     int64
	Job        string
	NewBalance int64
}

// GamesService defines the interface for the economy games
type GamesService interface {
	// Flip bets amount on a coin side
	Flip(ctx context.Context, userID int64, side string, amount int64) (*FlipResult, error)

	// Slots spins three reels for stake
	Slots(ctx context.Context, userID int64, stake int64) (*SlotsResult, error)

	// Rob attempts to steal from target
	Rob(ctx context.Context, actorID, targetID int64, now time.Time) (*RobResult, error)

	// Daily claims the daily reward
	Daily(ctx context.Context, userID int64, now time.Time) (*RewardResult, error)

	// Work claims a random wage
	Work(ctx context.Context, userID int64, now time.Time) (*RewardResult, error)
}

// PurchaseResult is the outcome of a role purchase
type PurchaseResult struct {
	Listing    *entities.ShopListing
	NewBalance int64
}

// ShopService defines the interface for the role shop
type ShopService interface {
	// ListListings returns all roles for sale
	ListListings(ctx context.Context) ([]*entities.ShopListing, error)

	// AddListing creates or reprices a listing
	AddListing(ctx context.Context, roleID int64, price int64) error

	// RemoveListing deletes a listing
	RemoveListing(ctx context.Context, roleID int64) error

	// PurchaseRole debits the buyer for a listed role. The caller grants the role before committing.
	PurchaseRole(ctx context.Context, userID, roleID int64, alreadyOwned bool) (*PurchaseResult, error)
}

// MarriageService defines the interface for marriage operations
type MarriageService interface {
	// CanPropose validates that a proposal may be opened
	CanPropose(ctx context.Context, proposerID, targetID int64) error

	// Marry stores the pair after the target accepted
	Marry(ctx context.Context, proposerID, targetID int64, now time.Time) (*entities.MarriageRecord, error)

	// GetMarriage returns the user's marriage or nil
	GetMarriage(ctx context.Context, userID int64) (*entities.MarriageRecord, error)

	// GetPartner returns the partner's ID and whether the user is married
	GetPartner(ctx context.Context, userID int64) (int64, bool, error)

	// Divorce removes the user's marriage
	Divorce(ctx context.Context, userID int64) (*entities.MarriageRecord, error)
}

// ModerationService defines the interface for the persisted side of moderation
type ModerationService interface {
	// Mute records a timed mute
	Mute(ctx context.Context, userID, moderatorID int64, duration time.Duration, reason string, now time.Time) (*entities.TempMute, error)

	// Unmute removes a timed mute
	Unmute(ctx context.Context, userID, moderatorID int64) error

	// Warn stores a warning and returns the user's warning count
	Warn(ctx context.Context, userID, moderatorID int64, reason string) (*entities.Warning, int, error)

	// GetWarnings returns a user's warnings
	GetWarnings(ctx context.Context, userID int64) ([]*entities.Warning, error)

	// ClearWarnings removes a user's warnings and returns how many were removed
	ClearWarnings(ctx context.Context, userID, moderatorID int64) (int64, error)

	// RecordAction publishes a moderation event for actions that have no stored state
	RecordAction(ctx context.Context, action entities.ModerationAction, targetID, moderatorID int64, reason, detail string) error

	// GetExpiredMutes returns mutes due for removal
	GetExpiredMutes(ctx context.Context, now time.Time) ([]*entities.TempMute, error)

	// ReleaseMute deletes an expired mute
	ReleaseMute(ctx context.Context, userID int64) error
}

// GuildConfigService defines the interface for guild configuration
type GuildConfigService interface {
	// GetOrCreate returns the guild config, creating an empty one if needed
	GetOrCreate(ctx context.Context, guildID int64) (*entities.GuildConfig, error)

	// SetLogChannel sets where moderation and deletion logs go
	SetLogChannel(ctx context.Context, guildID, channelID int64) (*entities.GuildConfig, error)

	// SetReportChannel sets where reports go and optionally which role is pinged
	SetReportChannel(ctx context.Context, guildID, channelID int64, roleID *int64) (*entities.GuildConfig, error)

	// SetAutorole sets the role given to new members
	SetAutorole(ctx context.Context, guildID, roleID int64) (*entities.GuildConfig, error)

	// GetReportTarget returns the config when a report channel is set, ErrConfigurationMissing otherwise
	GetReportTarget(ctx context.Context, guildID int64) (*entities.GuildConfig, error)
}

// TicketService defines the interface for support tickets
type TicketService interface {
	// Setup stores the support role and category
	Setup(ctx context.Context, guildID, supportRoleID, categoryID int64) (*entities.TicketConfig, error)

	// GetConfig returns the ticket config, ErrConfigurationMissing if setup never ran
	GetConfig(ctx context.Context, guildID int64) (*entities.TicketConfig, error)
}
