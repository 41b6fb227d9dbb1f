package services

import (
	"context"
	"fmt"

	"freshmart/internal/cache"
	"freshmart/internal/models"
	"freshmart/internal/repositories"
)

// recentViewCount is how many recently viewed SKUs the profile shows.
const recentViewCount = 5

// ProfileView is the read model for the user-center info page.
type ProfileView struct {
	Address    *models.Address // nil when the user has no default address
	RecentSKUs []models.SKU
}

// ProfileService assembles the profile page: default address plus the
// user's most recently viewed SKUs.
type ProfileService struct {
	addressRepo repositories.AddressRepository
	skuRepo     repositories.SKURepository
	history     cache.HistoryStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(addressRepo repositories.AddressRepository, skuRepo repositories.SKURepository, history cache.HistoryStore) *ProfileService {
	return &ProfileService{
		addressRepo: addressRepo,
		skuRepo:     skuRepo,
		history:     history,
	}
}

// Profile returns the user's default address and up to 5 recently
// viewed SKUs. History ids that no longer resolve against the catalog
// are skipped silently.
func (s *ProfileService) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	address, err := s.addressRepo.GetDefault(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load default address for user %s: %w", userID, err)
	}

	ids, err := s.history.Recent(ctx, userID, recentViewCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load view history for user %s: %w", userID, err)
	}

	skus := make([]models.SKU, 0, len(ids))
	for _, id := range ids {
		sku, err := s.skuRepo.GetByID(id)
		if err != nil {
			// Stale history entries are expected; skip them.
			continue
		}
		skus = append(skus, *sku)
	}

	return &ProfileView{
		Address:    address,
		RecentSKUs: skus,
	}, nil
}
