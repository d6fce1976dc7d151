package adminapi

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/barbeariaprime/primeapp/internal/remote"
	"github.com/barbeariaprime/primeapp/internal/synccache"
	"github.com/barbeariaprime/primeapp/pkg/common"
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

// failErr maps the domain error taxonomy onto HTTP statuses.
func failErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, synccache.ErrValidation):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, remote.ErrAuth):
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", err.Error(), nil)
	case errors.Is(err, remote.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, synccache.ErrRemoteMutation):
		return fail(c, http.StatusBadGateway, "REMOTE_WRITE_FAILED", err.Error(), nil)
	case errors.Is(err, synccache.ErrRemoteUnavailable):
		return fail(c, http.StatusServiceUnavailable, "REMOTE_UNAVAILABLE", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

// currentAccountID extracts the account identity from the verified session
// token. Empty on routes without the JWT middleware.
func currentAccountID(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// cartSessionCookie carries the generated cart key for anonymous visitors.
const cartSessionCookie = "cart_session"

// sessionKey keys the in-memory cart. Signed-in customers use their account
// identity; anonymous visitors supply X-Session-Id or get a per-client key
// issued as a cookie, so two visitors never share a cart.
func sessionKey(c echo.Context) string {
	if id := currentAccountID(c); id != "" {
		return id
	}
	if key := strings.TrimSpace(c.Request().Header.Get("X-Session-Id")); key != "" {
		return key
	}
	if ck, err := c.Cookie(cartSessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	key := common.UUID()
	c.SetCookie(&http.Cookie{
		Name:     cartSessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
	})
	return key
}
