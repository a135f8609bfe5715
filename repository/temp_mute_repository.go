package repository

import (
	"context"
	"fmt"
	"time"

	"nexus/domain"
	"nexus/domain/entities"
)

// TempMuteRepository implements the TempMuteRepository interface
type TempMuteRepository struct {
	q       Queryable
	guildID int64
}

// NewTempMuteRepositoryScoped creates a new temp mute repository with a transaction and guild scope
func NewTempMuteRepositoryScoped(tx Queryable, guildID int64) *TempMuteRepository {
	return &TempMuteRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Upsert stores a mute, replacing the unmute time of an existing one
func (r *TempMuteRepository) Upsert(ctx context.Context, userID int64, unmuteTime time.Time) error {
	query := `
		INSERT INTO temp_mutes (user_id, guild_id, unmute_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET unmute_time = EXCLUDED.unmute_time
	`

	if _, err := r.q.Exec(ctx, query, userID, r.guildID, unmuteTime); err != nil {
		return domain.StoreError(fmt.Sprintf("failed to save mute for user %d", userID), err)
	}
	return nil
}

// Delete removes a user's mute. Deleting an absent mute is not an error.
func (r *TempMuteRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM temp_mutes WHERE user_id = $1 AND guild_id = $2`

	if _, err := r.q.Exec(ctx, query, userID, r.guildID); err != nil {
		return domain.StoreError(fmt.Sprintf("failed to delete mute for user %d", userID), err)
	}
	return nil
}

// GetExpired returns the guild's mutes due at or before now
func (r *TempMuteRepository) GetExpired(ctx context.Context, now time.Time) ([]*entities.TempMute, error) {
	query := `
		SELECT user_id, guild_id, unmute_time
		FROM temp_mutes
		WHERE guild_id = $1 AND unmute_time <= $2
		ORDER BY unmute_time ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, now)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get expired mutes for guild %d", r.guildID), err)
	}
	defer rows.Close()

	var mutes []*entities.TempMute
	for rows.Next() {
		var mute entities.TempMute
		if err := rows.Scan(&mute.UserID, &mute.GuildID, &mute.UnmuteTime); err != nil {
			return nil, domain.StoreError("failed to scan mute", err)
		}
		mutes = append(mutes, &mute)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate mutes", err)
	}

	return mutes, nil
}

// GetGuildsWithExpiredMutes returns the guilds that hold at least one due mute.
// The query is not scoped so the sweep can discover which guilds to open.
func (r *TempMuteRepository) GetGuildsWithExpiredMutes(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT guild_id
		FROM temp_mutes
		WHERE unmute_time <= $1
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, domain.StoreError("failed to get guilds with expired mutes", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, domain.StoreError("failed to scan guild id", err)
		}
		guildIDs = append(guildIDs, guildID)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate guild ids", err)
	}

	return guildIDs, nil
}
