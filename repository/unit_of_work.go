package repository

import (
	"context"
	"errors"
	"fmt"

	"nexus/application"
	"nexus/database"
	"nexus/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	balanceHistoryRepo     interfaces.BalanceHistoryRepository
	progressionRepo        interfaces.ProgressionRepository
	cooldownRepo           interfaces.CooldownRepository
	shopRepo               interfaces.ShopRepository
	marriageRepo           interfaces.MarriageRepository
	guildConfigRepo        interfaces.GuildConfigRepository
	tempMuteRepo           interfaces.TempMuteRepository
	warningRepo            interfaces.WarningRepository
	ticketConfigRepo       interfaces.TicketConfigRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// CreateForGuildWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		guildID:                guildID,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = NewAccountRepositoryScoped(tx, u.guildID)
	u.balanceHistoryRepo = NewBalanceHistoryRepositoryScoped(tx, u.guildID)
	u.progressionRepo = NewProgressionRepositoryScoped(tx, u.guildID)
	u.cooldownRepo = NewCooldownRepositoryScoped(tx, u.guildID)
	u.shopRepo = NewShopRepositoryScoped(tx, u.guildID)
	u.marriageRepo = NewMarriageRepositoryScoped(tx, u.guildID)
	u.guildConfigRepo = NewGuildConfigRepositoryWithTx(tx) // keyed by guild explicitly
	u.tempMuteRepo = NewTempMuteRepositoryScoped(tx, u.guildID)
	u.warningRepo = NewWarningRepositoryScoped(tx, u.guildID)
	u.ticketConfigRepo = NewTicketConfigRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events only leave once the state they describe is durable
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithFields(log.Fields{
				"guild_id": u.guildID,
				"error":    err,
			}).Error("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic(notStarted)
	}
	return u.accountRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic(notStarted)
	}
	return u.balanceHistoryRepo
}

// ProgressionRepository returns the progression repository for this unit of work
func (u *unitOfWork) ProgressionRepository() interfaces.ProgressionRepository {
	if u.progressionRepo == nil {
		panic(notStarted)
	}
	return u.progressionRepo
}

// CooldownRepository returns the cooldown repository for this unit of work
func (u *unitOfWork) CooldownRepository() interfaces.CooldownRepository {
	if u.cooldownRepo == nil {
		panic(notStarted)
	}
	return u.cooldownRepo
}

// ShopRepository returns the shop repository for this unit of work
func (u *unitOfWork) ShopRepository() interfaces.ShopRepository {
	if u.shopRepo == nil {
		panic(notStarted)
	}
	return u.shopRepo
}

// MarriageRepository returns the marriage repository for this unit of work
func (u *unitOfWork) MarriageRepository() interfaces.MarriageRepository {
	if u.marriageRepo == nil {
		panic(notStarted)
	}
	return u.marriageRepo
}

// GuildConfigRepository returns the guild config repository for this unit of work
func (u *unitOfWork) GuildConfigRepository() interfaces.GuildConfigRepository {
	if u.guildConfigRepo == nil {
		panic(notStarted)
	}
	return u.guildConfigRepo
}

// TempMuteRepository returns the temp mute repository for this unit of work
func (u *unitOfWork) TempMuteRepository() interfaces.TempMuteRepository {
	if u.tempMuteRepo == nil {
		panic(notStarted)
	}
	return u.tempMuteRepo
}

// WarningRepository returns the warning repository for this unit of work
func (u *unitOfWork) WarningRepository() interfaces.WarningRepository {
	if u.warningRepo == nil {
		panic(notStarted)
	}
	return u.warningRepo
}

// TicketConfigRepository returns the ticket config repository for this unit of work
func (u *unitOfWork) TicketConfigRepository() interfaces.TicketConfigRepository {
	if u.ticketConfigRepo == nil {
		panic(notStarted)
	}
	return u.ticketConfigRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic(notStarted)
	}
	return u.transactionalPublisher
}
