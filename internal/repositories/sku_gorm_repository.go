package repositories

import (
	"fmt"

	"freshmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSKURepository is a GORM implementation of SKURepository.
type GORMSKURepository struct {
	db *gorm.DB
}

// NewGORMSKURepository creates a new instance of GORMSKURepository.
func NewGORMSKURepository(db *gorm.DB) *GORMSKURepository {
	return &GORMSKURepository{
		db: db,
	}
}

// GetAll retrieves all SKUs from the database.
func (r *GORMSKURepository) GetAll() ([]models.SKU, error) {
	var skus []models.SKU
	if err := r.db.Find(&skus).Error; err != nil {
		return nil, fmt.Errorf("failed to get all SKUs: %w", err)
	}
	return skus, nil
}

// GetByID retrieves a single SKU by its ID from the database.
func (r *GORMSKURepository) GetByID(id string) (*models.SKU, error) {
	var sku models.SKU
	if err := r.db.First(&sku, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("SKU with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get SKU by ID %s: %w", id, err)
	}
	return &sku, nil
}

// Create creates a new SKU in the database.
func (r *GORMSKURepository) Create(sku *models.SKU) error {
	if sku.ID == "" {
		sku.ID = uuid.New().String()
	}
	if err := r.db.Create(sku).Error; err != nil {
		return fmt.Errorf("failed to create SKU: %w", err)
	}
	return nil
}
