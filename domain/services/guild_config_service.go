package services

import (
	"context"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
)

type guildConfigService struct {
	guildConfigRepo interfaces.GuildConfigRepository
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(guildConfigRepo interfaces.GuildConfigRepository) interfaces.GuildConfigService {
	return &guildConfigService{guildConfigRepo: guildConfigRepo}
}

func (s *guildConfigService) GetOrCreate(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	config, err := s.guildConfigRepo.GetOrCreateGuildConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return config, nil
}

func (s *guildConfigService) SetLogChannel(ctx context.Context, guildID, channelID int64) (*entities.GuildConfig, error) {
	return s.update(ctx, guildID, func(c *entities.GuildConfig) {
		c.LogChannelID = &channelID
	})
}

// SetReportChannel replaces the report role as well; a nil role clears it
func (s *guildConfigService) SetReportChannel(ctx context.Context, guildID, channelID int64, roleID *int64) (*entities.GuildConfig, error) {
	return s.update(ctx, guildID, func(c *entities.GuildConfig) {
		c.ReportChannelID = &channelID
		c.ReportRoleID = roleID
	})
}

func (s *guildConfigService) SetAutorole(ctx context.Context, guildID, roleID int64) (*entities.GuildConfig, error) {
	return s.update(ctx, guildID, func(c *entities.GuildConfig) {
		c.AutoroleID = &roleID
	})
}

func (s *guildConfigService) GetReportTarget(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	config, err := s.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !config.HasReportChannel() {
		return nil, fmt.Errorf("%w: report channel not set, use /setreport", domain.ErrConfigurationMissing)
	}
	return config, nil
}

func (s *guildConfigService) update(ctx context.Context, guildID int64, apply func(*entities.GuildConfig)) (*entities.GuildConfig, error) {
	config, err := s.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}

	apply(config)
	if err := s.guildConfigRepo.UpdateGuildConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to update guild config: %w", err)
	}
	return config, nil
}
