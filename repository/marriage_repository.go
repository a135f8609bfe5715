package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"nexus/domain"
	"nexus/domain/entities"

	"github.com/jackc/pgx/v5"
)

// MarriageRepository implements the MarriageRepository interface
type MarriageRepository struct {
	q       Queryable
	guildID int64
}

// NewMarriageRepositoryScoped creates a new marriage repository with a transaction and guild scope
func NewMarriageRepositoryScoped(tx Queryable, guildID int64) *MarriageRepository {
	return &MarriageRepository{
		q:       tx,
		guildID: guildID,
	}
}

// GetByUser returns the marriage containing userID on either side, or nil
func (r *MarriageRepository) GetByUser(ctx context.Context, userID int64) (*entities.MarriageRecord, error) {
	query := `
		SELECT user1_id, user2_id, guild_id, marriage_date
		FROM marriages
		WHERE guild_id = $1 AND (user1_id = $2 OR user2_id = $2)
		LIMIT 1
	`

	var record entities.MarriageRecord
	err := r.q.QueryRow(ctx, query, r.guildID, userID).Scan(
		&record.User1ID,
		&record.User2ID,
		&record.GuildID,
		&record.MarriageDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get marriage for user %d", userID), err)
	}

	return &record, nil
}

// LockUsers takes a transaction-scoped advisory lock per user in ascending order.
// Holders of a lock on the same user wait until the other transaction ends.
func (r *MarriageRepository) LockUsers(ctx context.Context, userIDs ...int64) error {
	ids := slices.Clone(userIDs)
	slices.Sort(ids)

	for _, id := range slices.Compact(ids) {
		key := fmt.Sprintf("marriage:%d:%d", r.guildID, id)
		if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return domain.StoreError(fmt.Sprintf("failed to lock marriage state for user %d", id), err)
		}
	}
	return nil
}

// Create stores the pair in canonical order
func (r *MarriageRepository) Create(ctx context.Context, record *entities.MarriageRecord) error {
	record.User1ID, record.User2ID = entities.CanonicalPair(record.User1ID, record.User2ID)
	record.GuildID = r.guildID

	query := `
		INSERT INTO marriages (user1_id, user2_id, guild_id, marriage_date)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query, record.User1ID, record.User2ID, r.guildID, record.MarriageDate)
	if err != nil {
		return domain.StoreError(fmt.Sprintf("failed to create marriage for users %d and %d", record.User1ID, record.User2ID), err)
	}
	return nil
}

// Delete removes the pair
func (r *MarriageRepository) Delete(ctx context.Context, user1ID, user2ID int64) error {
	user1ID, user2ID = entities.CanonicalPair(user1ID, user2ID)

	query := `DELETE FROM marriages WHERE guild_id = $1 AND user1_id = $2 AND user2_id = $3`

	if _, err := r.q.Exec(ctx, query, r.guildID, user1ID, user2ID); err != nil {
		return domain.StoreError(fmt.Sprintf("failed to delete marriage for users %d and %d", user1ID, user2ID), err)
	}
	return nil
}
