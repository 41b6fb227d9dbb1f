package repositories

import "freshmart/internal/models"

// SKURepository defines the interface for catalog SKU data access.
// The storefront only reads the catalog; Create exists for seeding.
type SKURepository interface {
	GetAll() ([]models.SKU, error)
	GetByID(id string) (*models.SKU, error)
	Create(sku *models.SKU) error
}
