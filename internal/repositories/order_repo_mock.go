package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"freshmart/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	lines  map[string][]models.OrderLine
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		lines:  make(map[string][]models.OrderLine),
	}
}

// Create adds a new order with its lines.
func (r *MockOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	r.lines[order.ID] = lines
	return nil
}

// GetByUser returns the user's orders, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetLines returns the line items of an order.
func (r *MockOrderRepository) GetLines(orderID string) ([]models.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines, ok := r.lines[orderID]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found", orderID)
	}
	out := make([]models.OrderLine, len(lines))
	copy(out, lines)
	return out, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}
