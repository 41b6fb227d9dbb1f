package services

import (
	"fmt"

	"freshmart/internal/models"
	"freshmart/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// AddressService handles the user-center address page.
type AddressService struct {
	addressRepo repositories.AddressRepository
	validate    *validator.Validate
}

// NewAddressService creates a new AddressService.
func NewAddressService(addressRepo repositories.AddressRepository) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		validate:    newFormValidator(),
	}
}

// Default returns the user's default address, or nil when none exists.
func (s *AddressService) Default(userID string) (*models.Address, error) {
	address, err := s.addressRepo.GetDefault(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load default address for user %s: %w", userID, err)
	}
	return address, nil
}

// Add validates and stores a new shipping address. The first address a
// user adds becomes the default; later ones never auto-promote.
func (s *AddressService) Add(userID string, form AddressForm) (*models.Address, error) {
	if err := checkForm(s.validate, form); err != nil {
		return nil, err
	}

	current, err := s.addressRepo.GetDefault(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check default address for user %s: %w", userID, err)
	}

	address := &models.Address{
		UserID:    userID,
		Receiver:  form.Receiver,
		Addr:      form.Addr,
		ZipCode:   form.ZipCode,
		Phone:     form.Phone,
		IsDefault: current == nil,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}
