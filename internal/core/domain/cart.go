package domain

import "errors"

var ErrUnauthorized = errors.New("credential rejected by cart service")
var ErrCartUnavailable = errors.New("cart service unavailable")
var ErrInvalidLine = errors.New("cart line requires a product id")

// ProductRef is the denormalized product value carried by a cart line.
// It is copied into the line when the line is added or refreshed; the cart
// never re-fetches product data on its own, so a stale price in a long-lived
// snapshot is expected.
type ProductRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// CartLine is one product entry in a snapshot. A snapshot holds at most one
// line per product id; a quantity of zero or below removes the line instead
// of being stored.
type CartLine struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// CartSnapshot is the complete cart state as a single value. Updates replace
// the whole snapshot; mutation helpers return a new snapshot and never alias
// the receiver's backing array.
type CartSnapshot []CartLine

// Total returns the price sum across all lines.
func (s CartSnapshot) Total() float64 {
	var total float64
	for _, line := range s {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// ItemCount returns the summed quantity across all lines.
func (s CartSnapshot) ItemCount() int {
	var count int
	for _, line := range s {
		count += line.Quantity
	}
	return count
}

// Find returns the line for productID, or nil when absent.
func (s CartSnapshot) Find(productID string) *CartLine {
	for i := range s {
		if s[i].Product.ID == productID {
			return &s[i]
		}
	}
	return nil
}

// Add returns a snapshot with quantity of product incremented by qty,
// appending a new line when the product is not yet present.
func (s CartSnapshot) Add(product ProductRef, qty int) CartSnapshot {
	next := s.clone()
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity += qty
			return next
		}
	}
	return append(next, CartLine{Product: product, Quantity: qty})
}

// Remove returns a snapshot without the line for productID.
func (s CartSnapshot) Remove(productID string) CartSnapshot {
	next := make(CartSnapshot, 0, len(s))
	for _, line := range s {
		if line.Product.ID != productID {
			next = append(next, line)
		}
	}
	return next
}

// WithQuantity returns a snapshot where the line for productID carries qty.
// A qty of zero or below removes the line.
func (s CartSnapshot) WithQuantity(productID string, qty int) CartSnapshot {
	if qty <= 0 {
		return s.Remove(productID)
	}
	next := s.clone()
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = qty
		}
	}
	return next
}

func (s CartSnapshot) clone() CartSnapshot {
	next := make(CartSnapshot, len(s))
	copy(next, s)
	return next
}
