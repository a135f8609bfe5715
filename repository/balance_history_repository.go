package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q       Queryable
	guildID int64
}

// NewBalanceHistoryRepositoryScoped creates a new balance history repository with a transaction and guild scope
func NewBalanceHistoryRepositoryScoped(tx Queryable, guildID int64) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Record creates a new balance history entry
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	metadata := history.TransactionMetadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO balance_history
		(user_id, guild_id, balance_before, balance_after, change_amount, transaction_type, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		history.UserID,
		r.guildID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		history.TransactionType,
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to record balance history for user %d", history.UserID), err)
	}

	history.GuildID = r.guildID
	return nil
}

// GetByUser returns the most recent balance history for a user
func (r *BalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT id, user_id, guild_id, balance_before, balance_after, change_amount,
		       transaction_type, metadata, created_at
		FROM balance_history
		WHERE user_id = $1 AND guild_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, r.guildID, limit)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get balance history for user %d", userID), err)
	}
	defer rows.Close()

	var histories []*entities.BalanceHistory
	for rows.Next() {
		var h entities.BalanceHistory
		var metadataJSON []byte
		if err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.GuildID,
			&h.BalanceBefore,
			&h.BalanceAfter,
			&h.ChangeAmount,
			&h.TransactionType,
			&metadataJSON,
			&h.CreatedAt,
		); err != nil {
			return nil, domain.StoreError("failed to scan balance history", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &h.TransactionMetadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		histories = append(histories, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate balance history", err)
	}

	return histories, nil
}
