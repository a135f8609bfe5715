package services

import (
	"context"
	"fmt"

	"nexus/domain"
	"nexus/domain/entities"
	"nexus/domain/interfaces"
)

type shopService struct {
	shopRepo interfaces.ShopRepository
	ledger   interfaces.LedgerService
}

// NewShopService creates a new role shop service
func NewShopService(shopRepo interfaces.ShopRepository, ledger interfaces.LedgerService) interfaces.ShopService {
	return &shopService{
		shopRepo: shopRepo,
		ledger:   ledger,
	}
}

func (s *shopService) ListListings(ctx context.Context) ([]*entities.ShopListing, error) {
	listings, err := s.shopRepo.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop: %w", err)
	}
	return listings, nil
}

func (s *shopService) AddListing(ctx context.Context, roleID int64, price int64) error {
	if price <= 0 {
		return domain.NewValidationError("price", "price must be positive")
	}
	if err := s.shopRepo.UpsertListing(ctx, roleID, price); err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

func (s *shopService) RemoveListing(ctx context.Context, roleID int64) error {
	existed, err := s.shopRepo.DeleteListing(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if !existed {
		return domain.ErrListingNotFound
	}
	return nil
}

// PurchaseRole debits the listing price. The role grant happens in the caller
// before the unit of work commits, so a failed grant rolls the debit back.
func (s *shopService) PurchaseRole(ctx context.Context, userID, roleID int64, alreadyOwned bool) (*interfaces.PurchaseResult, error) {
	listing, err := s.shopRepo.GetListing(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	if alreadyOwned {
		return nil, domain.ErrAlreadyOwnsRole
	}

	newBalance, err := s.ledger.Debit(ctx, userID, listing.Price, entities.TransactionTypeRolePurchase, map[string]any{
		"role_id": roleID,
	})
	if err != nil {
		return nil, err
	}

	return &interfaces.PurchaseResult{
		Listing:    listing,
		NewBalance: newBalance,
	}, nil
}
