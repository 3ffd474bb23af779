package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
