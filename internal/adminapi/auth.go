package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/remote"
	"github.com/barbeariaprime/primeapp/internal/webserver"
)

func registerAuthRoutes() {
	webserver.PubPOST("/api/auth/signup", postSignup)
	webserver.PubPOST("/api/auth/login", postLogin)
	webserver.PubPOST("/api/auth/logout", postLogout)
	webserver.PubGET("/api/auth/session", getSession)
	webserver.AuthGET("/api/profile", getProfile)
	webserver.AuthPUT("/api/profile", putProfile)
}

type signupPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func postSignup(c echo.Context) error {
	var payload signupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "email and password are required", nil)
	}
	// Mismatched passwords never reach the remote store.
	if payload.Password != payload.ConfirmPassword {
		return fail(c, http.StatusBadRequest, "PASSWORD_MISMATCH", "passwords do not match", nil)
	}

	sess, err := env.Auth.SignUp(c.Request().Context(), payload.Email, payload.Password, remote.SignupAttrs{
		Name:  strings.TrimSpace(payload.Name),
		Phone: strings.TrimSpace(payload.Phone),
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, sess)
}

type loginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func postLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	sess, err := env.Auth.SignIn(c.Request().Context(), strings.TrimSpace(payload.Identifier), payload.Password)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, sess)
}

func postLogout(c echo.Context) error {
	if err := env.Auth.SignOut(c.Request().Context()); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"signed_out": true})
}

func getSession(c echo.Context) error {
	sess := env.Auth.CurrentSession()
	return ok(c, map[string]interface{}{
		"authenticated": sess != nil,
		"session":       sess,
	})
}

func getProfile(c echo.Context) error {
	// always the requester's own row, never the shared working profile
	profile, err := env.Cache.FetchProfile(c.Request().Context(), currentAccountID(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{
		"profile":  profile,
		"complete": profile.Complete(),
	})
}

func putProfile(c echo.Context) error {
	var profile domain.Profile
	if err := c.Bind(&profile); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", err.Error())
	}
	accountID := currentAccountID(c)
	if err := env.Cache.SaveProfile(c.Request().Context(), accountID, profile); err != nil {
		return failErr(c, err)
	}
	profile.AccountID = accountID
	return ok(c, profile)
}
