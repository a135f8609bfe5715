package infrastructure

import (
	"nexus/application"
	"nexus/database"
	"nexus/domain/events"
	"nexus/domain/interfaces"
	"nexus/repository"
)

type repositoryUnitOfWorkFactory interface {
	CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) application.UnitOfWork
}

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// Each unit of work gets its own transactional publisher so events leave only after commit.
type UnitOfWorkFactory struct {
	repoFactory    repositoryUnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler that will be invoked in-process for events
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler LocalEventHandler) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForGuild creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return f.repoFactory.CreateForGuildWithPublisher(guildID, NewNATSTransactionalPublisher(f.eventPublisher))
}
