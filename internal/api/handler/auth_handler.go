package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

// AuthNotifier publishes auth-state transitions for a session. The cart
// dispatcher implements it; login and logout feed it so the session's cart
// reconciler reacts without waiting for the next cart request.
type AuthNotifier interface {
	Enqueue(event ports.AuthChangeEvent)
}

type AuthHandler struct {
	authService ports.AuthService
	notifier    AuthNotifier
}

func NewAuthHandler(authService ports.AuthService, notifier AuthNotifier) *AuthHandler {
	return &AuthHandler{authService: authService, notifier: notifier}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token. When the request
// carries a storefront session id, the session's cart reconciler is notified
// so it can swap to the server-side cart.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string        false  "Storefront session id"
// @Param        body          body      loginRequest  true   "Login credentials"
// @Success      200           {object}  authResponse
// @Failure      401           {object}  errorResponse
// @Failure      404           {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if sessionID := c.Request().Header.Get(sessionHeader); sessionID != "" {
		h.notifier.Enqueue(ports.AuthChangeEvent{
			SessionID: sessionID,
			State: domain.AuthState{
				Identity: &domain.AuthIdentity{UserID: user.ID, Credential: token},
			},
		})
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout notifies the session's cart reconciler that the identity is gone.
// The token itself is stateless; the client simply discards it.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Storefront session id"
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID := c.Request().Header.Get(sessionHeader); sessionID != "" {
		h.notifier.Enqueue(ports.AuthChangeEvent{
			SessionID: sessionID,
			State:     domain.AuthState{},
			Logout:    true,
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// ChangePassword updates the authenticated user's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
