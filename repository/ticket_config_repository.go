package repository

import (
	"context"
	"errors"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TicketConfigRepository implements the TicketConfigRepository interface
type TicketConfigRepository struct {
	q Queryable
}

// NewTicketConfigRepositoryWithTx creates a new ticket config repository with a transaction
func NewTicketConfigRepositoryWithTx(tx Queryable) *TicketConfigRepository {
	return &TicketConfigRepository{q: tx}
}

// GetTicketConfig returns the guild's ticket config or nil if setup never ran
func (r *TicketConfigRepository) GetTicketConfig(ctx context.Context, guildID int64) (*entities.TicketConfig, error) {
	query := `
		SELECT guild_id, support_role_id, ticket_category_id
		FROM ticket_configs
		WHERE guild_id = $1
	`

	var config entities.TicketConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(&config.GuildID, &config.SupportRoleID, &config.TicketCategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get ticket config for guild %d", guildID), err)
	}

	return &config, nil
}

// UpsertTicketConfig stores the ticket config, replacing a previous setup
func (r *TicketConfigRepository) UpsertTicketConfig(ctx context.Context, config *entities.TicketConfig) error {
	query := `
		INSERT INTO ticket_configs (guild_id, support_role_id, ticket_category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id)
		DO UPDATE SET support_role_id = EXCLUDED.support_role_id, ticket_category_id = EXCLUDED.ticket_category_id
	`

	_, err := r.q.Exec(ctx, query, config.GuildID, config.SupportRoleID, config.TicketCategoryID)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to save ticket config for guild %d", config.GuildID), err)
	}
	return nil
}
