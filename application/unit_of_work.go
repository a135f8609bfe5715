package application

import (
	"context"

	"nexus/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	ProgressionRepository() interfaces.ProgressionRepository
	CooldownRepository() interfaces.CooldownRepository
	ShopRepository() interfaces.ShopRepository
	MarriageRepository() interfaces.MarriageRepository
	GuildConfigRepository() interfaces.GuildConfigRepository
	TempMuteRepository() interfaces.TempMuteRepository
	WarningRepository() interfaces.WarningRepository
	TicketConfigRepository() interfaces.TicketConfigRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
