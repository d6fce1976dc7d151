// Package webserver owns the echo instance and the route registrars used by
// the API packages. Routes come in three flavours: public, session-protected
// and admin-protected.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/config"
)

type WebServer struct {
	root  *echo.Echo
	cfg   *config.AppConfig
	jwt   echo.MiddlewareFunc
	admin echo.MiddlewareFunc
}

var server *WebServer

// Init builds the echo instance with recover, CORS and request logging
// middleware plus the JWT middleware shared by the protected registrars.
func Init(cfg *config.AppConfig) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())

	jwtmw := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
	})

	server = &WebServer{
		root:  e,
		cfg:   cfg,
		jwt:   jwtmw,
		admin: adminScope(jwtmw),
	}
}

// Instance returns the underlying echo instance; used by tests to drive
// requests without a listener.
func Instance() *echo.Echo {
	return server.root
}

// Listen starts the HTTP listener and blocks.
func Listen() error {
	addr := fmt.Sprintf("%s:%d", server.cfg.Web.Host, server.cfg.Web.Port)
	zap.L().Info("webserver starting", zap.String("listen", addr))
	return server.root.Start(addr)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

// adminScope wraps the JWT middleware and additionally requires the token to
// carry the back-office scope. Customer session tokens never carry it.
func adminScope(jwtmw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtmw(func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || claims["scope"] != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin scope required")
			}
			return next(c)
		})
	}
}

// Public registrars.

func PubGET(path string, h echo.HandlerFunc)    { server.root.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc)   { server.root.POST(path, h) }
func PubDELETE(path string, h echo.HandlerFunc) { server.root.DELETE(path, h) }

// Session-protected registrars.

func AuthGET(path string, h echo.HandlerFunc)  { server.root.GET(path, h, server.jwt) }
func AuthPOST(path string, h echo.HandlerFunc) { server.root.POST(path, h, server.jwt) }
func AuthPUT(path string, h echo.HandlerFunc)  { server.root.PUT(path, h, server.jwt) }

// Admin-protected registrars.

func AdminGET(path string, h echo.HandlerFunc)    { server.root.GET(path, h, server.admin) }
func AdminPOST(path string, h echo.HandlerFunc)   { server.root.POST(path, h, server.admin) }
func AdminPUT(path string, h echo.HandlerFunc)    { server.root.PUT(path, h, server.admin) }
func AdminDELETE(path string, h echo.HandlerFunc) { server.root.DELETE(path, h, server.admin) }
