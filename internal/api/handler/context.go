package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finapp/storefront/internal/core/domain"
)

// sessionHeader carries the client-generated storefront session id. The
// client keeps it stable across login and logout, so the same session's cart
// reconciler observes both transitions.
const sessionHeader = "X-Session-ID"

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing user id
// means the middleware did not run or the token carried no subject.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return userID, role, nil
}

// ctxSessionID returns the storefront session id. Cart routes cannot operate
// without one: guest carts are keyed by it.
func ctxSessionID(c echo.Context) (string, error) {
	sessionID := c.Request().Header.Get(sessionHeader)
	if sessionID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+sessionHeader+" header")
	}
	return sessionID, nil
}

// ctxAuthState builds the auth snapshot for the current request: the
// identity when the optional auth middleware validated a token, guest
// otherwise. Loading is always false here: by the time a request carries a
// token, the credential is fully resolved.
func ctxAuthState(c echo.Context) domain.AuthState {
	userID, _ := c.Get("user_id").(string)
	credential, _ := c.Get("credential").(string)
	if userID == "" || credential == "" {
		return domain.AuthState{}
	}
	return domain.AuthState{
		Identity: &domain.AuthIdentity{UserID: userID, Credential: credential},
	}
}
