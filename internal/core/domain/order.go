package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrEmptyOrder = errors.New("order requires at least one line")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderLine is a priced line frozen at checkout time.
type OrderLine struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	LineTotal float64 `json:"line_total" bson:"line_total"`
}

// ShippingAddress is where the order ships to.
type ShippingAddress struct {
	FullName string `json:"full_name" bson:"full_name"`
	Street   string `json:"street" bson:"street"`
	City     string `json:"city" bson:"city"`
	ZipCode  string `json:"zip_code" bson:"zip_code"`
	Country  string `json:"country" bson:"country"`
}

// Order is the checkout aggregate. Lines are copies of the cart snapshot at
// creation time; later catalog price changes do not affect a placed order.
type Order struct {
	ID        string          `json:"id" bson:"_id,omitempty"`
	UserID    string          `json:"user_id" bson:"user_id"`
	Lines     []OrderLine     `json:"lines" bson:"lines"`
	Total     float64         `json:"total" bson:"total"`
	Status    OrderStatus     `json:"status" bson:"status"`
	Shipping  ShippingAddress `json:"shipping" bson:"shipping"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}
