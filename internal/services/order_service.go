package services

import (
	"fmt"
	"strconv"

	"freshmart/internal/models"
	"freshmart/internal/repositories"
)

// OrderLineView is an order line plus its computed subtotal, built at
// read time so the persisted record stays untouched.
type OrderLineView struct {
	models.OrderLine
	Subtotal float64
}

// OrderView is an order plus its lines and the human-readable status
// label.
type OrderView struct {
	models.Order
	StatusLabel string
	Lines       []OrderLineView
}

// OrderPage is one page of a user's order history together with the
// page-number strip to render.
type OrderPage struct {
	Orders     []OrderView
	Page       int
	TotalPages int
	Pages      []int
	HasPrev    bool
	HasNext    bool
}

// OrderService assembles the paginated order-history read model.
type OrderService struct {
	orderRepo repositories.OrderRepository
	pageSize  int
}

// NewOrderService creates a new OrderService. pageSize values below 1
// fall back to 1.
func NewOrderService(orderRepo repositories.OrderRepository, pageSize int) *OrderService {
	if pageSize < 1 {
		pageSize = 1
	}
	return &OrderService{
		orderRepo: orderRepo,
		pageSize:  pageSize,
	}
}

// History loads the user's orders newest first and returns the
// requested page with line subtotals and status labels attached.
// Non-numeric page input defaults to page 1; out-of-range values are
// clamped into [1, TotalPages].
func (s *OrderService) History(userID string, pageParam string) (*OrderPage, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history for user %s: %w", userID, err)
	}

	totalPages := (len(orders) + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(orders) {
		start = len(orders)
	}
	if end > len(orders) {
		end = len(orders)
	}

	views := make([]OrderView, 0, end-start)
	for _, order := range orders[start:end] {
		lines, err := s.orderRepo.GetLines(order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lines for order %s: %w", order.ID, err)
		}
		lineViews := make([]OrderLineView, 0, len(lines))
		for _, line := range lines {
			lineViews = append(lineViews, OrderLineView{
				OrderLine: line,
				Subtotal:  line.Subtotal(),
			})
		}
		views = append(views, OrderView{
			Order:       order,
			StatusLabel: order.Status.Label(),
			Lines:       lineViews,
		})
	}

	return &OrderPage{
		Orders:     views,
		Page:       page,
		TotalPages: totalPages,
		Pages:      PageWindow(totalPages, page),
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}, nil
}

// PageWindow computes the sliding strip of page numbers to render:
// all pages when there are fewer than 5, otherwise a constant-width
// window of 5 anchored at the edges.
func PageWindow(totalPages, currentPage int) []int {
	var lo, hi int
	switch {
	case totalPages < 5:
		lo, hi = 1, totalPages
	case currentPage <= 3:
		lo, hi = 1, 5
	case totalPages-currentPage <= 2:
		lo, hi = totalPages-4, totalPages
	default:
		lo, hi = currentPage-2, currentPage+2
	}

	pages := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}
	return pages
}
