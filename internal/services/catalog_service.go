package services

import (
	"freshmart/internal/models"
	"freshmart/internal/repositories"
)

// CatalogService provides read-only access to the SKU catalog.
type CatalogService struct {
	repo repositories.SKURepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.SKURepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// GetAllSKUs retrieves all SKUs.
func (s *CatalogService) GetAllSKUs() ([]models.SKU, error) {
	return s.repo.GetAll()
}

// GetSKUByID retrieves a single SKU by its ID.
func (s *CatalogService) GetSKUByID(id string) (*models.SKU, error) {
	return s.repo.GetByID(id)
}
