package repositories

import (
	"fmt"

	"freshmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{
		db: db,
	}
}

// Create creates a new address in the database.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	if err := r.db.Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// GetDefault retrieves the user's default address, or nil when none exists.
func (r *GORMAddressRepository) GetDefault(userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.First(&address, "user_id = ? AND is_default = ?", userID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default address for user %s: %w", userID, err)
	}
	return &address, nil
}

// GetByUser retrieves all addresses belonging to the user.
func (r *GORMAddressRepository) GetByUser(userID string) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Find(&addresses, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get addresses for user %s: %w", userID, err)
	}
	return addresses, nil
}
