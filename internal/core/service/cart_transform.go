package service

import (
	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

// unknownProductName substitutes a missing name on a wire line item.
const unknownProductName = "Unknown Product"

// SnapshotFromRemote converts a server-shaped cart document into a
// CartSnapshot, defensively: a nil document or items field yields an empty
// snapshot, nil entries and entries without a product id are dropped, and
// missing numeric fields degrade to zero. Every emitted line has a non-empty
// product id, a non-negative price and a non-negative quantity.
func SnapshotFromRemote(doc *ports.RemoteCartDocument) domain.CartSnapshot {
	if doc == nil || doc.Items == nil {
		return domain.CartSnapshot{}
	}

	snap := make(domain.CartSnapshot, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item == nil || item.ProductID == "" {
			continue
		}

		name := item.Name
		if name == "" {
			name = unknownProductName
		}
		price := item.Price
		if price < 0 {
			price = 0
		}
		quantity := item.Quantity
		if quantity < 0 {
			quantity = 0
		}

		snap = append(snap, domain.CartLine{
			Product: domain.ProductRef{
				ID:       item.ProductID,
				Name:     name,
				Price:    price,
				Category: item.Category,
				ImageURL: item.ImageURL,
			},
			Quantity: quantity,
		})
	}
	return snap
}
