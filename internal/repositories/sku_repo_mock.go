package repositories

import (
	"fmt"
	"sync"

	"freshmart/internal/models"

	"github.com/google/uuid"
)

// MockSKURepository is an in-memory implementation of SKURepository.
type MockSKURepository struct {
	skus map[string]models.SKU
	mu   sync.RWMutex
}

// NewMockSKURepository creates a new instance of MockSKURepository.
func NewMockSKURepository() *MockSKURepository {
	return &MockSKURepository{
		skus: make(map[string]models.SKU),
	}
}

// GetAll returns all SKUs.
func (r *MockSKURepository) GetAll() ([]models.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skuList := make([]models.SKU, 0, len(r.skus))
	for _, s := range r.skus {
		skuList = append(skuList, s)
	}
	return skuList, nil
}

// GetByID returns a SKU by its ID.
func (r *MockSKURepository) GetByID(id string) (*models.SKU, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sku, ok := r.skus[id]
	if !ok {
		return nil, fmt.Errorf("SKU with ID %s not found", id)
	}
	return &sku, nil
}

// Create adds a new SKU.
func (r *MockSKURepository) Create(sku *models.SKU) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sku.ID == "" {
		sku.ID = uuid.New().String()
	}
	r.skus[sku.ID] = *sku
	return nil
}
