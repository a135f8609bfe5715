package repository

import (
	"context"
	"errors"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ShopRepository implements the ShopRepository interface over role_shop
type ShopRepository struct {
	q       Queryable
	guildID int64
}

// NewShopRepositoryScoped creates a new shop repository with a transaction and guild scope
func NewShopRepositoryScoped(tx Queryable, guildID int64) *ShopRepository {
	return &ShopRepository{
		q:       tx,
		guildID: guildID,
	}
}

// GetListing returns the listing for roleID or nil when the role is not for sale
func (r *ShopRepository) GetListing(ctx context.Context, roleID int64) (*entities.ShopListing, error) {
	query := `
		SELECT guild_id, role_id, price
		FROM role_shop
		WHERE guild_id = $1 AND role_id = $2
	`

	var listing entities.ShopListing
	err := r.q.QueryRow(ctx, query, r.guildID, roleID).Scan(&listing.GuildID, &listing.RoleID, &listing.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to get listing for role %d", roleID), err)
	}

	return &listing, nil
}

// ListListings returns every listing of the guild, cheapest first
func (r *ShopRepository) ListListings(ctx context.Context) ([]*entities.ShopListing, error) {
	query := `
		SELECT guild_id, role_id, price
		FROM role_shop
		WHERE guild_id = $1
		ORDER BY price ASC, role_id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("failed to list shop for guild %d", r.guildID), err)
	}
	defer rows.Close()

	var listings []*entities.ShopListing
	for rows.Next() {
		var listing entities.ShopListing
		if err := rows.Scan(&listing.GuildID, &listing.RoleID, &listing.Price); err != nil {
			return nil, domain.StoreError("failed to scan listing", err)
		}
		listings = append(listings, &listing)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate listings", err)
	}

	return listings, nil
}

// UpsertListing creates or reprices a listing
func (r *ShopRepository) UpsertListing(ctx context.Context, roleID int64, price int64) error {
	query := `
		INSERT INTO role_shop (guild_id, role_id, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, role_id)
		DO UPDATE SET price = EXCLUDED.price
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, roleID, price); err != nil {
		return domain.StoreError(fmt.Sprintf("failed to save listing for role %d", roleID), err)
	}
	return nil
}

// DeleteListing removes a listing and reports whether one existed
func (r *ShopRepository) DeleteListing(ctx context.Context, roleID int64) (bool, error) {
	query := `DELETE FROM role_shop WHERE guild_id = $1 AND role_id = $2`

	result, err := r.q.Exec(ctx, query, r.guildID, roleID)
	if err != nil {
		return false, domain.StoreError(fmt.Sprintf("failed to delete listing for role %d", roleID), err)
	}
	return result.RowsAffected() > 0, nil
}
