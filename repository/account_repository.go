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

// AccountRepository implements the AccountRepository interface over the economy table
type AccountRepository struct {
	q       Queryable
	guildID int64
}

// NewAccountRepository creates an account repository on the pool for one guild
func NewAccountRepository(db *database.DB, guildID int64) *AccountRepository {
	return &AccountRepository{q: db.Pool, guildID: guildID}
}

// NewAccountRepositoryScoped creates an account repository with a transaction and guild scope
func NewAccountRepositoryScoped(tx Queryable, guildID int64) *AccountRepository {
	return &AccountRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Get returns the account or a zero-balance default without inserting
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*entities.Account, error) {
	query := `
		SELECT user_id, guild_id, balance, updated_at
		FROM economy
		WHERE user_id = $1 AND guild_id = $2
	`

	account, err := r.scan(r.q.QueryRow(ctx, query, userID, r.guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return &entities.Account{UserID: userID, GuildID: r.guildID}, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get account for user %d in guild %d", userID, r.guildID), err)
	}
	return account, nil
}

// GetForUpdate inserts the row if missing and locks it
func (r *AccountRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.Account, error) {
	insert := `
		INSERT INTO economy (user_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, guild_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID, r.guildID); err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to materialize account for user %d", userID), err)
	}

	query := `
		SELECT user_id, guild_id, balance, updated_at
		FROM economy
		WHERE user_id = $1 AND guild_id = $2
		FOR UPDATE
	`
	account, err := r.scan(r.q.QueryRow(ctx, query, userID, r.guildID))
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to lock account for user %d", userID), err)
	}
	return account, nil
}

// AddBalance applies delta in a single upsert so concurrent adds never lose updates
func (r *AccountRepository) AddBalance(ctx context.Context, userID int64, delta int64) (*entities.Account, error) {
	query := `
		INSERT INTO economy (user_id, guild_id, balance, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET balance = economy.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING user_id, guild_id, balance, updated_at
	`

	account, err := r.scan(r.q.QueryRow(ctx, query, userID, r.guildID, delta))
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to add %d to user %d", delta, userID), err)
	}
	return account, nil
}

// SetBalance overwrites the balance, creating the row if needed
func (r *AccountRepository) SetBalance(ctx context.Context, userID int64, amount int64) (*entities.Account, error) {
	query := `
		INSERT INTO economy (user_id, guild_id, balance, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()
		RETURNING user_id, guild_id, balance, updated_at
	`

	account, err := r.scan(r.q.QueryRow(ctx, query, userID, r.guildID, amount))
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to set balance of user %d", userID), err)
	}
	return account, nil
}

func (r *AccountRepository) scan(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	if err := row.Scan(&account.UserID, &account.GuildID, &account.Balance, &account.UpdatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}
