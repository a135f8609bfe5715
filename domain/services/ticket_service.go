package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
)

// TicketChannelPrefix marks channels created by /ticket open
const TicketChannelPrefix = "ticket-"

var ticketNameInvalid = regexp.MustCompile(`[^a-z0-9-]+`)

type ticketService struct {
	ticketConfigRepo interfaces.TicketConfigRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketConfigRepo interfaces.TicketConfigRepository) interfaces.TicketService {
	return &ticketService{ticketConfigRepo: ticketConfigRepo}
}

func (s *ticketService) Setup(ctx context.Context, guildID, supportRoleID, categoryID int64) (*entities.TicketConfig, error) {
	config := &entities.TicketConfig{
		GuildID:          guildID,
		SupportRoleID:    supportRoleID,
		TicketCategoryID: categoryID,
	}
	if err := s.ticketConfigRepo.UpsertTicketConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save ticket config: %w", err)
	}
	return config, nil
}

func (s *ticketService) GetConfig(ctx context.Context, guildID int64) (*entities.TicketConfig, error) {
	config, err := s.ticketConfigRepo.GetTicketConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: tickets are not set up, use /ticket setup", domain.ErrConfigurationMissing)
	}
	return config, nil
}

// TicketChannelName builds a Discord-safe channel name for a user's ticket
func TicketChannelName(username string) string {
	name := ticketNameInvalid.ReplaceAllString(strings.ToLower(username), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "user"
	}
	if len(name) > 90 {
		name = name[:90]
	}
	return TicketChannelPrefix + name
}

// IsTicketChannel reports whether a channel name was produced by TicketChannelName
func IsTicketChannel(name string) bool {
	return strings.HasPrefix(name, TicketChannelPrefix)
}
