package repository

import (
	"context"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"
)

// WarningRepository implements the WarningRepository interface
type WarningRepository struct {
	q       Queryable
	guildID int64
}

// NewWarningRepositoryScoped creates a new warning repository with a transaction and guild scope
func NewWarningRepositoryScoped(tx Queryable, guildID int64) *WarningRepository {
	return &WarningRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Create stores a warning and fills its ID and timestamp
func (r *WarningRepository) Create(ctx context.Context, warning *entities.Warning) error {
	query := `
		INSERT INTO warnings (user_id, guild_id, moderator_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`

	err := r.q.QueryRow(ctx, query, warning.UserID, r.guildID, warning.ModeratorID, warning.Reason).Scan(
		&warning.ID,
		&warning.Timestamp,
	)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to create warning for user %d", warning.UserID), err)
	}

	warning.GuildID = r.guildID
	return nil
}

// GetByUser returns the user's warnings, oldest first
func (r *WarningRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.Warning, error) {
	query := `
		SELECT id, user_id, guild_id, moderator_id, reason, timestamp
		FROM warnings
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get warnings for user %d", userID), err)
	}
	defer rows.Close()

	var warnings []*entities.Warning
	for rows.Next() {
		var w entities.Warning
		if err := rows.Scan(&w.ID, &w.UserID, &w.GuildID, &w.ModeratorID, &w.Reason, &w.Timestamp); err != nil {
			return nil, domain.StoreError("failed to scan warning", err)
		}
		warnings = append(warnings, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate warnings", err)
	}

	return warnings, nil
}

// DeleteByUser removes every warning of the user
func (r *WarningRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2`

	result, err := r.q.Exec(ctx, query, r.guildID, userID)
	if err != nil {
		return 0, domain.StoreError(fmt.Sprintf("failed to clear warnings for user %d", userID), err)
	}
	return result.RowsAffected(), nil
}
