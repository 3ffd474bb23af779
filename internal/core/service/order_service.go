package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/api/metrics"
	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

type orderService struct {
	repo ports.OrderRepository
	log  zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(repo ports.OrderRepository, log zerolog.Logger) ports.OrderService {
	return &orderService{repo: repo, log: log}
}

// Checkout freezes the cart snapshot into an order in the "pending" status.
// Lines with zero quantity are skipped; an order with no remaining lines is
// rejected.
func (s *orderService) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	lines := make([]domain.OrderLine, 0, len(input.Snapshot))
	var total float64
	for _, line := range input.Snapshot {
		if line.Quantity <= 0 {
			continue
		}
		lineTotal := line.Product.Price * float64(line.Quantity)
		lines = append(lines, domain.OrderLine{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID: input.UserID,
		Lines:  lines,
		Total:  total,
		Status: domain.OrderPending,
		Shipping: domain.ShippingAddress{
			FullName: input.Shipping.FullName,
			Street:   input.Shipping.Street,
			City:     input.Shipping.City,
			ZipCode:  input.Shipping.ZipCode,
			Country:  input.Shipping.Country,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	s.log.Info().Str("order_id", created.ID).Str("user_id", input.UserID).Float64("total", total).Msg("order created")
	return created, nil
}

// GetOrder retrieves a single order. Customers only see their own orders;
// admins see everything.
func (s *orderService) GetOrder(ctx context.Context, input ports.GetOrderInput) (*domain.Order, error) {
	filterUserID := input.UserID
	if input.Role == domain.RoleAdmin {
		filterUserID = ""
	}
	return s.repo.FindByID(ctx, input.OrderID, filterUserID)
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateOrderStatus applies an admin status change, enforcing the order
// lifecycle transition table.
func (s *orderService) UpdateOrderStatus(ctx context.Context, input ports.UpdateOrderStatusInput) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID, "")
	if err != nil {
		return nil, err
	}

	next := domain.OrderStatus(input.Status)
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, err
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	s.log.Info().Str("order_id", order.ID).Str("status", string(next)).Msg("order status updated")
	return order, nil
}
