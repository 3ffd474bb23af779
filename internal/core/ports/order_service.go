package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// CheckoutInput carries everything needed to place an order from the current
// cart snapshot.
type CheckoutInput struct {
	UserID   string
	Snapshot domain.CartSnapshot
	Shipping ShippingInput
}

// ShippingInput holds the destination address.
type ShippingInput struct {
	FullName string
	Street   string
	City     string
	ZipCode  string
	Country  string
}

// GetOrderInput carries the parameters for retrieving a single order.
// Role and UserID enforce access control: customers only see their own orders.
type GetOrderInput struct {
	OrderID string
	Role    string
	UserID  string
}

// UpdateOrderStatusInput carries an admin status change request.
type UpdateOrderStatusInput struct {
	OrderID string
	Status  string
}

// OrderService defines use-case operations for checkout and order history.
type OrderService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	GetOrder(ctx context.Context, input GetOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input UpdateOrderStatusInput) (*domain.Order, error)
}
