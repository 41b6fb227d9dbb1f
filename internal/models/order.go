package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	StatusUnpaid OrderStatus = iota + 1
	StatusAwaitingShipment
	StatusShipped
	StatusAwaitingReview
	StatusFinished
)

var orderStatusLabels = map[OrderStatus]string{
	StatusUnpaid:           "awaiting payment",
	StatusAwaitingShipment: "awaiting shipment",
	StatusShipped:          "shipped",
	StatusAwaitingReview:   "awaiting review",
	StatusFinished:         "finished",
}

// Label returns the human-readable name for the status.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return "unknown"
}

// Order represents a customer order. Orders are immutable once placed;
// only the status advances.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID      string      `json:"user_id" gorm:"index;type:varchar(36)"`
	AddressID   string      `json:"address_id" gorm:"type:varchar(36)"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	gorm.Model
}

// OrderLine is a single item within an order. Price is the unit price
// at the time of purchase, a snapshot independent of the catalog.
type OrderLine struct {
	ID       string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OrderID  string  `json:"order_id" gorm:"index;type:varchar(36)"`
	SKUID    string  `json:"sku_id" gorm:"type:varchar(36)"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price"`
	gorm.Model
}

// Subtotal is quantity times the snapshotted unit price. Computed at
// read time, never stored.
func (l OrderLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Price
}
