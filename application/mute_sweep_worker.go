package application

import (
	"context"
	"fmt"
	"time"

	"nexus/domain/services"
	"nexus/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// MuteSweepWorker lifts timed mutes once their unmute time has passed
type MuteSweepWorker struct {
	uowFactory UnitOfWorkFactory
	roles      MuteRoleManager
	now        func() time.Time
}

// NewMuteSweepWorker creates a new mute sweep worker
func NewMuteSweepWorker(uowFactory UnitOfWorkFactory, roles MuteRoleManager) *MuteSweepWorker {
	return &MuteSweepWorker{
		uowFactory: uowFactory,
		roles:      roles,
		now:        time.Now,
	}
}

// Start runs a sweep every interval until ctx ends or the returned stop function is called
func (w *MuteSweepWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", interval).Info("Mute sweep worker started")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Mute sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Mute sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := w.Sweep(ctx); err != nil {
					log.Errorf("Error sweeping expired mutes: %v", err)
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// Sweep lifts every expired mute in every guild. A failing guild does not stop the others.
func (w *MuteSweepWorker) Sweep(ctx context.Context) error {
	now := w.now().UTC()

	guildIDs, err := w.findGuilds(ctx, now)
	if err != nil {
		return err
	}

	var released, failed int
	for _, guildID := range guildIDs {
		count, err := w.sweepGuild(ctx, guildID, now)
		released += count
		if err != nil {
			log.Errorf("Error sweeping mutes for guild %d: %v", guildID, err)
			failed++
		}
	}

	observability.GetMetrics().RecordMutesReleased(released)

	if len(guildIDs) > 0 {
		log.WithFields(log.Fields{
			"guilds":   len(guildIDs),
			"released": released,
			"failed":   failed,
		}).Info("Completed mute sweep")
	}

	return nil
}

// findGuilds runs unscoped, the same way other cross-guild lookups use guild 0
func (w *MuteSweepWorker) findGuilds(ctx context.Context, now time.Time) ([]int64, error) {
	uow := w.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	guildIDs, err := uow.TempMuteRepository().GetGuildsWithExpiredMutes(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find guilds with expired mutes: %w", err)
	}
	return guildIDs, nil
}

func (w *MuteSweepWorker) sweepGuild(ctx context.Context, guildID int64, now time.Time) (int, error) {
	uow := w.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	moderationService := services.NewModerationService(
		guildID,
		uow.TempMuteRepository(),
		uow.WarningRepository(),
		uow.EventBus(),
	)

	mutes, err := moderationService.GetExpiredMutes(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, mute := range mutes {
		// The row goes even when Discord refuses, so a left member or a missing role never blocks the sweep
		if err := w.roles.RemoveMuteRole(ctx, guildID, mute.UserID); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  mute.UserID,
				"error":   err,
			}).Warn("Failed to remove mute role")
		}

		if err := moderationService.ReleaseMute(ctx, mute.UserID); err != nil {
			return 0, err
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(mutes), nil
}
