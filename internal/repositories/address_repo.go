package repositories

import "freshmart/internal/models"

// AddressRepository defines the interface for shipping address data access.
// GetDefault returns (nil, nil) when the user has no default address.
type AddressRepository interface {
	Create(address *models.Address) error
	GetDefault(userID string) (*models.Address, error)
	GetByUser(userID string) ([]models.Address, error)
}
