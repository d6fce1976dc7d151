package adminapi

import (
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/barbeariaprime/primeapp/internal/imageutil"
	"github.com/barbeariaprime/primeapp/internal/webserver"
)

const adminTokenTTL = 12 * time.Hour

func registerAdminRoutes() {
	webserver.PubPOST("/api/admin/login", postAdminLogin)
	webserver.AdminPOST("/api/admin/images", postAdminImage)
}

type adminLoginPayload struct {
	Password string `json:"password"`
}

// postAdminLogin gates the back-office behind the shared admin password and
// answers with a scoped token the admin registrars require.
func postAdminLogin(c echo.Context) error {
	var payload adminLoginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}

	hash := env.AdminPasswordHash()
	if hash == "" {
		zap.L().Error("adminapi: admin password hash not configured")
		return fail(c, http.StatusInternalServerError, "NOT_CONFIGURED", "Admin access not configured", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(payload.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid password", nil)
	}

	claims := jwt.MapClaims{
		"sub":   "admin",
		"scope": "admin",
		"exp":   time.Now().Add(adminTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(env.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, map[string]interface{}{
		"token":      token,
		"expires_at": time.Now().Add(adminTokenTTL),
	})
}

// postAdminImage accepts a multipart upload, shrinks it to the catalog image
// bound and returns the embeddable data URL.
func postAdminImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "MISSING_FILE", "file field is required", nil)
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to open upload", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Unable to read upload", err.Error())
	}
	dataURL, err := imageutil.Shrink(data)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "INVALID_IMAGE", "Unable to process image", err.Error())
	}
	return ok(c, map[string]interface{}{"image": dataURL})
}
