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

// ProgressionRepository implements the ProgressionRepository interface over the leveling table
type ProgressionRepository struct {
	q       Queryable
	guildID int64
}

// NewProgressionRepositoryScoped creates a new progression repository with a transaction and guild scope
func NewProgressionRepositoryScoped(tx Queryable, guildID int64) *ProgressionRepository {
	return &ProgressionRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Get returns the record or a zero-valued default measured from the epoch
func (r *ProgressionRepository) Get(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	query := `
		SELECT user_id, guild_id, xp, level, last_message_time
		FROM leveling
		WHERE user_id = $1 AND guild_id = $2
	`

	record, err := scanProgression(r.q.QueryRow(ctx, query, userID, r.guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return &entities.ProgressionRecord{
			UserID:          userID,
			GuildID:         r.guildID,
			LastMessageTime: time.Unix(0, 0).UTC(),
		}, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get progression for user %d in guild %d", userID, r.guildID), err)
	}
	return record, nil
}

// GetForUpdate inserts the row if missing and locks it for the read-modify-write of an award
func (r *ProgressionRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	insert := `
		INSERT INTO leveling (user_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, guild_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID, r.guildID); err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to materialize progression for user %d", userID), err)
	}

	query := `
		SELECT user_id, guild_id, xp, level, last_message_time
		FROM leveling
		WHERE user_id = $1 AND guild_id = $2
		FOR UPDATE
	`
	record, err := scanProgression(r.q.QueryRow(ctx, query, userID, r.guildID))
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to lock progression for user %d", userID), err)
	}
	return record, nil
}

// Save upserts xp, level and last message time
func (r *ProgressionRepository) Save(ctx context.Context, record *entities.ProgressionRecord) error {
	query := `
		INSERT INTO leveling (user_id, guild_id, xp, level, last_message_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET xp = EXCLUDED.xp, level = EXCLUDED.level, last_message_time = EXCLUDED.last_message_time
	`

	_, err := r.q.Exec(ctx, query, record.UserID, r.guildID, record.XP, record.Level, record.LastMessageTime)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to save progression for user %d", record.UserID), err)
	}
	record.GuildID = r.guildID
	return nil
}

// GetLeaderboard returns the top users ordered by level then xp
func (r *ProgressionRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.RankEntry, error) {
	query := `
		SELECT user_id, xp, level
		FROM leveling
		WHERE guild_id = $1
		ORDER BY level DESC, xp DESC, user_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get leaderboard for guild %d", r.guildID), err)
	}
	defer rows.Close()

	var entries []*entities.RankEntry
	for rows.Next() {
		entry := &entities.RankEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.UserID, &entry.XP, &entry.Level); err != nil {
			return nil, domain.StoreError("failed to scan leaderboard row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate leaderboard", err)
	}

	return entries, nil
}

// GetRank returns the user's 1-based position using the leaderboard ordering
func (r *ProgressionRepository) GetRank(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT (
			SELECT COUNT(*) + 1
			FROM leveling other
			WHERE other.guild_id = me.guild_id
			  AND (other.level > me.level
			   OR (other.level = me.level AND other.xp > me.xp)
			   OR (other.level = me.level AND other.xp = me.xp AND other.user_id < me.user_id))
		)
		FROM leveling me
		WHERE me.user_id = $1 AND me.guild_id = $2
	`

	var rank int
	err := r.q.QueryRow(ctx, query, userID, r.guildID).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.StoreError(fmt.Sprintf("failed to get rank for user %d", userID), err)
	}

	return rank, nil
}

func scanProgression(row pgx.Row) (*entities.ProgressionRecord, error) {
	var record entities.ProgressionRecord
	err := row.Scan(&record.UserID, &record.GuildID, &record.XP, &record.Level, &record.LastMessageTime)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
