package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultReason is used when a moderator gives no reason
	DefaultReason = "No reason given."

	// ExpiredMuteReason is logged when the sweep lifts a mute
	ExpiredMuteReason = "Mute expired."
)

type moderationService struct {
	guildID        int64
	tempMuteRepo   interfaces.TempMuteRepository
	warningRepo    interfaces.WarningRepository
	eventPublisher interfaces.EventPublisher
}

// NewModerationService creates a moderation service for one guild
func NewModerationService(
	guildID int64,
	tempMuteRepo interfaces.TempMuteRepository,
	warningRepo interfaces.WarningRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ModerationService {
	return &moderationService{
		guildID:        guildID,
		tempMuteRepo:   tempMuteRepo,
		warningRepo:    warningRepo,
		eventPublisher: eventPublisher,
	}
}

// Mute stores the unmute time; re-muting a muted user replaces it
func (s *moderationService) Mute(ctx context.Context, userID, moderatorID int64, duration time.Duration, reason string, now time.Time) (*entities.TempMute, error) {
	if duration <= 0 {
		return nil, domain.NewValidationError("duration", "duration must be positive")
	}

	mute := &entities.TempMute{
		UserID:     userID,
		GuildID:    s.guildID,
		UnmuteTime: now.Add(duration),
	}
	if err := s.tempMuteRepo.Upsert(ctx, userID, mute.UnmuteTime); err != nil {
		return nil, fmt.Errorf("failed to store mute: %w", err)
	}

	s.publish(entities.ModerationMute, userID, moderatorID, normalizeReason(reason), duration.String())
	return mute, nil
}

func (s *moderationService) Unmute(ctx context.Context, userID, moderatorID int64) error {
	if err := s.tempMuteRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete mute: %w", err)
	}

	s.publish(entities.ModerationUnmute, userID, moderatorID, "", "")
	return nil
}

// Warn stores a warning and returns the user's running total
func (s *moderationService) Warn(ctx context.Context, userID, moderatorID int64, reason string) (*entities.Warning, int, error) {
	warning := &entities.Warning{
		UserID:      userID,
		GuildID:     s.guildID,
		ModeratorID: moderatorID,
		Reason:      normalizeReason(reason),
	}
	if err := s.warningRepo.Create(ctx, warning); err != nil {
		return nil, 0, fmt.Errorf("failed to store warning: %w", err)
	}

	warnings, err := s.warningRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count warnings: %w", err)
	}

	s.publish(entities.ModerationWarn, userID, moderatorID, warning.Reason, "")
	return warning, len(warnings), nil
}

func (s *moderationService) GetWarnings(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	warnings, err := s.warningRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings: %w", err)
	}
	return warnings, nil
}

func (s *moderationService) ClearWarnings(ctx context.Context, userID, moderatorID int64) (int64, error) {
	removed, err := s.warningRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}

	s.publish(entities.ModerationClearWarns, userID, moderatorID, "", fmt.Sprintf("%d removed", removed))
	return removed, nil
}

// RecordAction raises the log event for actions carried out directly against Discord
func (s *moderationService) RecordAction(ctx context.Context, action entities.ModerationAction, targetID, moderatorID int64, reason, detail string) error {
	s.publish(action, targetID, moderatorID, reason, detail)
	return nil
}

func (s *moderationService) GetExpiredMutes(ctx context.Context, now time.Time) ([]*entities.TempMute, error) {
	mutes, err := s.tempMuteRepo.GetExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired mutes: %w", err)
	}
	return mutes, nil
}

// ReleaseMute deletes an expired mute. The event carries moderator 0 since no one issued it.
func (s *moderationService) ReleaseMute(ctx context.Context, userID int64) error {
	if err := s.tempMuteRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to release mute: %w", err)
	}

	s.publish(entities.ModerationUnmute, userID, 0, ExpiredMuteReason, "")
	return nil
}

func (s *moderationService) publish(action entities.ModerationAction, targetID, moderatorID int64, reason, detail string) {
	event := events.ModerationEvent{
		GuildID:     s.guildID,
		Action:      action,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Detail:      detail,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"guildID": s.guildID,
			"action":  action,
		}).WithError(err).Error("Failed to publish moderation event")
	}
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return DefaultReason
	}
	return reason
}
