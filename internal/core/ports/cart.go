package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// GuestCartStore persists the guest-mode cart snapshot for a storefront
// session. Load returns an empty snapshot, not an error, when nothing is
// stored yet.
type GuestCartStore interface {
	Load(ctx context.Context, sessionID string) (domain.CartSnapshot, error)
	Save(ctx context.Context, sessionID string, snapshot domain.CartSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// RemoteCartItem is one wire-format line item as returned by the remote cart
// service. Fields may be absent on the wire; the snapshot transformation
// substitutes defaults.
type RemoteCartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"imageUrl"`
	Quantity  int     `json:"quantity"`
}

// RemoteCartDocument is the server-shaped cart object. Items may be nil or
// contain nil entries; consumers must not assume a well-formed sequence.
type RemoteCartDocument struct {
	Items []*RemoteCartItem `json:"items"`
}

// RemoteCartService is the upstream cart API. Every call carries the bearer
// credential of the authenticated identity; guest mode never calls it.
// Implementations return domain.ErrUnauthorized when the credential is
// rejected and wrap transport failures in domain.ErrCartUnavailable.
type RemoteCartService interface {
	Get(ctx context.Context, credential string) (*RemoteCartDocument, error)
	AddItem(ctx context.Context, credential, productID string, quantity int) (*RemoteCartDocument, error)
	UpdateItem(ctx context.Context, credential, productID string, quantity int) (*RemoteCartDocument, error)
	RemoveItem(ctx context.Context, credential, productID string) (*RemoteCartDocument, error)
}

// CartView is the read/mutate surface exposed to transport handlers. Guest
// mutations are pure local edits and never fail; authenticated mutations are
// server-authoritative and propagate remote errors with the snapshot left
// unchanged.
type CartView interface {
	Snapshot() domain.CartSnapshot
	ItemCount() int
	Total() float64

	AddLine(ctx context.Context, product domain.ProductRef, quantity int) error
	RemoveLine(ctx context.Context, productID string) error
	SetQuantity(ctx context.Context, productID string, quantity int) error
	Clear(ctx context.Context) error

	// Refresh forces a re-load from the current source of truth.
	Refresh(ctx context.Context) error

	// Subscribe registers fn to be called after every snapshot replacement.
	Subscribe(fn func(domain.CartSnapshot))
}
