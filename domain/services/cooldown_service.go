package services

import (
	"context"
	"fmt"
	"time"

	"nexus/domain/entities"
	"nexus/domain/interfaces"
)

type cooldownService struct {
	cooldownRepo interfaces.CooldownRepository
}

// NewCooldownService creates a new cooldown gate
func NewCooldownService(cooldownRepo interfaces.CooldownRepository) interfaces.CooldownService {
	return &cooldownService{cooldownRepo: cooldownRepo}
}

// Check allows the action once window has fully elapsed since the last record.
// A user with no record is measured from the Unix epoch.
func (s *cooldownService) Check(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*interfaces.CooldownResult, error) {
	entry, err := s.cooldownRepo.Get(ctx, userID, action)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s cooldown: %w", action, err)
	}
	return evaluateCooldown(entry, window, now), nil
}

// Acquire is Check over a locked entry. The lock is held until the caller's
// transaction ends, which is after Record for an allowed claim.
func (s *cooldownService) Acquire(ctx context.Context, userID int64, action entities.CooldownAction, window time.Duration, now time.Time) (*interfaces.CooldownResult, error) {
	entry, err := s.cooldownRepo.GetForUpdate(ctx, userID, action)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s cooldown: %w", action, err)
	}
	return evaluateCooldown(entry, window, now), nil
}

func evaluateCooldown(entry *entities.CooldownEntry, window time.Duration, now time.Time) *interfaces.CooldownResult {
	last := time.Unix(0, 0)
	if entry != nil {
		last = entry.LastTime
	}

	elapsed := now.Sub(last)
	if elapsed >= window {
		return &interfaces.CooldownResult{Allowed: true}
	}
	return &interfaces.CooldownResult{Remaining: window - elapsed}
}

// Record marks the action as used at now
func (s *cooldownService) Record(ctx context.Context, userID int64, action entities.CooldownAction, now time.Time) error {
	if err := s.cooldownRepo.Upsert(ctx, userID, action, now); err != nil {
		return fmt.Errorf("failed to record %s cooldown: %w", action, err)
	}
	return nil
}
