package repositories

import "freshmart/internal/models"

// OrderRepository defines the interface for order data access.
// GetByUser returns orders newest first. Orders are immutable once
// created, so there is no update beyond the status column.
type OrderRepository interface {
	Create(order *models.Order, lines []models.OrderLine) error
	GetByUser(userID string) ([]models.Order, error)
	GetLines(orderID string) ([]models.OrderLine, error)
	UpdateStatus(id string, status models.OrderStatus) error
}
