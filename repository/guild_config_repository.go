package repository

import (
	"context"
	"errors"
	"fmt"

	"nexus/database"
	"nexus/domain"
	"nexus/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q Queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// NewGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func NewGuildConfigRepositoryWithTx(tx Queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetOrCreateGuildConfig retrieves guild config or creates an empty one if not found
func (r *GuildConfigRepository) GetOrCreateGuildConfig(ctx context.Context, guildID int64) (*entities.GuildConfig, error) {
	query := `
		SELECT guild_id, log_channel_id, report_channel_id, report_role_id, autorole_id
		FROM config
		WHERE guild_id = $1
	`

	config, err := scanGuildConfig(r.q.QueryRow(ctx, query, guildID))
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.StoreError(fmt.Sprintf("failed to get guild config for guild %d", guildID), err)
	}

	// A concurrent creator may win the insert, so re-read on conflict
	insertQuery := `
		INSERT INTO config (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, log_channel_id, report_channel_id, report_role_id, autorole_id
	`

	config, err = scanGuildConfig(r.q.QueryRow(ctx, insertQuery, guildID))
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to create guild config for guild %d", guildID), err)
	}

	return config, nil
}

// UpdateGuildConfig updates guild config
func (r *GuildConfigRepository) UpdateGuildConfig(ctx context.Context, config *entities.GuildConfig) error {
	query := `
		UPDATE config
		SET log_channel_id = $2,
		    report_channel_id = $3,
		    report_role_id = $4,
		    autorole_id = $5
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		config.GuildID,
		config.LogChannelID,
		config.ReportChannelID,
		config.ReportRoleID,
		config.AutoroleID,
	)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to update guild config for guild %d", config.GuildID), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", config.GuildID)
	}

	return nil
}

func scanGuildConfig(row pgx.Row) (*entities.GuildConfig, error) {
	var config entities.GuildConfig
	err := row.Scan(
		&config.GuildID,
		&config.LogChannelID,
		&config.ReportChannelID,
		&config.ReportRoleID,
		&config.AutoroleID,
	)
	if err != nil {
		return nil, err
	}
	return &config, nil
}
