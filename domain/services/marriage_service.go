package services

import (
	"context"
	"fmt"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type marriageService struct {
	marriageRepo   interfaces.MarriageRepository
	eventPublisher interfaces.EventPublisher
}

// NewMarriageService creates a new marriage service
func NewMarriageService(marriageRepo interfaces.MarriageRepository, eventPublisher interfaces.EventPublisher) interfaces.MarriageService {
	return &marriageService{
		marriageRepo:   marriageRepo,
		eventPublisher: eventPublisher,
	}
}

// CanPropose rejects self proposals and proposals where either side is married
func (s *marriageService) CanPropose(ctx context.Context, proposerID, targetID int64) error {
	if proposerID == targetID {
		return domain.NewValidationError("user", "you cannot marry yourself")
	}

	for _, userID := range []int64{proposerID, targetID} {
		existing, err := s.marriageRepo.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check marriage: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: user %d", domain.ErrAlreadyMarried, userID)
		}
	}

	return nil
}

// Marry re-validates both parties, since either may have married someone else
// while the proposal was pending, then stores the canonical pair
func (s *marriageService) Marry(ctx context.Context, proposerID, targetID int64, now time.Time) (*entities.MarriageRecord, error) {
	if err := s.marriageRepo.LockUsers(ctx, proposerID, targetID); err != nil {
		return nil, fmt.Errorf("failed to lock marriage state: %w", err)
	}
	if err := s.CanPropose(ctx, proposerID, targetID); err != nil {
		return nil, err
	}

	user1, user2 := entities.CanonicalPair(proposerID, targetID)
	record := &entities.MarriageRecord{
		User1ID:      user1,
		User2ID:      user2,
		MarriageDate: now,
	}
	if err := s.marriageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create marriage: %w", err)
	}

	s.publish(record, true)
	return record, nil
}

func (s *marriageService) GetMarriage(ctx context.Context, userID int64) (*entities.MarriageRecord, error) {
	record, err := s.marriageRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get marriage: %w", err)
	}
	return record, nil
}

func (s *marriageService) GetPartner(ctx context.Context, userID int64) (int64, bool, error) {
	record, err := s.GetMarriage(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if record == nil {
		return 0, false, nil
	}
	return record.PartnerOf(userID), true, nil
}

// Divorce deletes the user's marriage
func (s *marriageService) Divorce(ctx context.Context, userID int64) (*entities.MarriageRecord, error) {
	record, err := s.GetMarriage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotMarried
	}

	if err := s.marriageRepo.Delete(ctx, record.User1ID, record.User2ID); err != nil {
		return nil, fmt.Errorf("failed to delete marriage: %w", err)
	}

	s.publish(record, false)
	return record, nil
}

func (s *marriageService) publish(record *entities.MarriageRecord, married bool) {
	event := events.MarriageEvent{
		GuildID: record.GuildID,
		User1ID: record.User1ID,
		User2ID: record.User2ID,
		Married: married,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish marriage event")
	}
}
