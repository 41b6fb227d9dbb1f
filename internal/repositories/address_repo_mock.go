package repositories

import (
	"sync"

	"freshmart/internal/models"

	"github.com/google/uuid"
)

// MockAddressRepository is an in-memory implementation of AddressRepository.
type MockAddressRepository struct {
	addresses map[string]models.Address
	mu        sync.RWMutex
}

// NewMockAddressRepository creates a new instance of MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]models.Address),
	}
}

// Create adds a new address.
func (r *MockAddressRepository) Create(address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	r.addresses[address.ID] = *address
	return nil
}

// GetDefault returns the user's default address, or nil when none exists.
func (r *MockAddressRepository) GetDefault(userID string) (*models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			address := a
			return &address, nil
		}
	}
	return nil, nil
}

// GetByUser returns all addresses belonging to the user.
func (r *MockAddressRepository) GetByUser(userID string) ([]models.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var addresses []models.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			addresses = append(addresses, a)
		}
	}
	return addresses, nil
}
