package common

import (
	"context"
	"fmt"

	"nexus/application"
)

// WithUnitOfWork runs fn inside a guild-scoped unit of work and commits when fn succeeds.
// Any error from fn rolls the transaction back and discards the queued events.
func WithUnitOfWork(ctx context.Context, uowFactory application.UnitOfWorkFactory, guildID int64, fn func(uow application.UnitOfWork) error) error {
	uow := uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
