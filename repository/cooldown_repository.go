package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexus/domain"
	"nexus/domain/entities"

	"github.com/jackc/pgx/v5"
)

// CooldownRepository implements the CooldownRepository interface
type CooldownRepository struct {
	q       Queryable
	guildID int64
}

// NewCooldownRepositoryScoped creates a new cooldown repository with a transaction and guild scope
func NewCooldownRepositoryScoped(tx Queryable, guildID int64) *CooldownRepository {
	return &CooldownRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Get returns the last use of action or nil when it never ran
func (r *CooldownRepository) Get(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error) {
	query := `
		SELECT user_id, guild_id, action, last_time
		FROM cooldowns
		WHERE user_id = $1 AND guild_id = $2 AND action = $3
	`

	var entry entities.CooldownEntry
	err := r.q.QueryRow(ctx, query, userID, r.guildID, string(action)).Scan(
		&entry.UserID,
		&entry.GuildID,
		&entry.Action,
		&entry.LastTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get %s cooldown for user %d", action, userID), err)
	}

	return &entry, nil
}

// GetForUpdate inserts an epoch row if missing and locks it, so concurrent
// claims of the same action wait for each other instead of both passing the check
func (r *CooldownRepository) GetForUpdate(ctx context.Context, userID int64, action entities.CooldownAction) (*entities.CooldownEntry, error) {
	insert := `
		INSERT INTO cooldowns (user_id, guild_id, action, last_time)
		VALUES ($1, $2, $3, to_timestamp(0))
		ON CONFLICT (user_id, guild_id, action) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID, r.guildID, string(action)); err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to materialize %s cooldown for user %d", action, userID), err)
	}

	query := `
		SELECT user_id, guild_id, action, last_time
		FROM cooldowns
		WHERE user_id = $1 AND guild_id = $2 AND action = $3
		FOR UPDATE
	`

	var entry entities.CooldownEntry
	err := r.q.QueryRow(ctx, query, userID, r.guildID, string(action)).Scan(
		&entry.UserID,
		&entry.GuildID,
		&entry.Action,
		&entry.LastTime,
	)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to lock %s cooldown for user %d", action, userID), err)
	}

	return &entry, nil
}

// Upsert records the last time action ran
func (r *CooldownRepository) Upsert(ctx context.Context, userID int64, action entities.CooldownAction, at time.Time) error {
	query := `
		INSERT INTO cooldowns (user_id, guild_id, action, last_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, action)
		DO UPDATE SET last_time = EXCLUDED.last_time
	`

	_, err := r.q.Exec(ctx, query, userID, r.guildID, string(action), at)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to record %s cooldown for user %d", action, userID), err)
	}
	return nil
}
