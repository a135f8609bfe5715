package services

import (
	"context"
	"fmt"
	"time"

	"nexus/domain/entities"
	"nexus/domain/events"
	"nexus/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// BaseXP is the threshold to leave level 0
	BaseXP      int64 = 100
	// XPIncrement is added to the threshold for every level gained
	XPIncrement int64 = 50

	DefaultXPPerMessage int64 = 15
	DefaultXPCooldown         = 60 * time.Second
	DefaultLeaderboardSize    = 10
)

// XPThreshold returns the XP needed to advance from level to level+1
func XPThreshold(level int64) int64 {
	return BaseXP + level*XPIncrement
}

// ApplyAward adds award to xp and advances level for every threshold crossed.
// A single large award can cross several levels.
func ApplyAward(xp, level, award int64) (newXP, newLevel int64, leveledUp bool) {
	total := xp + award
	for total >= XPThreshold(level) {
		total -= XPThreshold(level)
		level++
		leveledUp = true
	}
	return total, level, leveledUp
}

// ProgressionSettings controls message XP awards
type ProgressionSettings struct {
	XPPerMessage int64
	Cooldown     time.Duration
}

// DefaultProgressionSettings returns the stock award of 15 XP per minute of chat
func DefaultProgressionSettings() ProgressionSettings {
	return ProgressionSettings{
		XPPerMessage: DefaultXPPerMessage,
		Cooldown:     DefaultXPCooldown,
	}
}

type progressionService struct {
	progressionRepo interfaces.ProgressionRepository
	eventPublisher  interfaces.EventPublisher
	settings        ProgressionSettings
}

// NewProgressionService creates a new progression service
func NewProgressionService(
	progressionRepo interfaces.ProgressionRepository,
	eventPublisher interfaces.EventPublisher,
	settings ProgressionSettings,
) interfaces.ProgressionService {
	return &progressionService{
		progressionRepo: progressionRepo,
		eventPublisher:  eventPublisher,
		settings:        settings,
	}
}

// AwardMessageXP grants message XP under a row lock so concurrent messages from
// the same user cannot lose updates
func (s *progressionService) AwardMessageXP(ctx context.Context, userID, channelID int64, now time.Time) (*interfaces.XPAwardResult, error) {
	record, err := s.progressionRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	result := &interfaces.XPAwardResult{
		Record:   record,
		OldLevel: record.Level,
	}

	if now.Sub(record.LastMessageTime) < s.settings.Cooldown {
		return result, nil
	}

	record.XP, record.Level, result.LeveledUp = ApplyAward(record.XP, record.Level, s.settings.XPPerMessage)
	record.LastMessageTime = now
	if err := s.progressionRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save progression: %w", err)
	}
	result.Awarded = true

	if result.LeveledUp {
		event := events.LevelUpEvent{
			GuildID:   record.GuildID,
			UserID:    userID,
			ChannelID: channelID,
			OldLevel:  result.OldLevel,
			NewLevel:  record.Level,
		}
		log.WithFields(log.Fields{
			"guildID":  record.GuildID,
			"userID":   userID,
			"newLevel": record.Level,
		}).Info("User leveled up")
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish level up event")
		}
	}

	return result, nil
}

// GetRankInfo returns the user's progression and leaderboard rank
func (s *progressionService) GetRankInfo(ctx context.Context, userID int64) (*interfaces.RankInfo, error) {
	record, err := s.progressionRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progression: %w", err)
	}

	rank, err := s.progressionRepo.GetRank(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	return &interfaces.RankInfo{
		Record:        record,
		Rank:          rank,
		NextThreshold: XPThreshold(record.Level),
	}, nil
}

// GetLeaderboard returns the top users of the guild
func (s *progressionService) GetLeaderboard(ctx context.Context, limit int) ([]*entities.RankEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	entries, err := s.progressionRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}
