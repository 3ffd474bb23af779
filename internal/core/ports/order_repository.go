package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID retrieves an order. When userID is non-empty, the query is
	// additionally filtered by user_id so customers only see their own orders.
	FindByID(ctx context.Context, id string, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
