package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// AuthChangeEvent notifies a session's cart reconciler that the session's
// auth state changed (login, logout, account switch, or hydration progress).
type AuthChangeEvent struct {
	SessionID string
	State     domain.AuthState
	// Logout marks an explicit present → absent edge. The receiving
	// reconciler may be freshly built (idle eviction, process restart) and
	// cannot infer the edge from its own state.
	Logout bool
}

// AuthChangeHandler consumes auth change events. Delivery for a given
// session id must preserve event order.
type AuthChangeHandler interface {
	HandleAuthChange(ctx context.Context, event AuthChangeEvent)
}
