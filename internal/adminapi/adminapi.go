// Package adminapi implements the HTTP surface: the customer-facing catalog,
// auth, profile, cart and booking endpoints plus the back-office endpoints
// used to manage the catalog and shop metadata.
package adminapi

import (
	"github.com/barbeariaprime/primeapp/internal/booking"
	"github.com/barbeariaprime/primeapp/internal/remote"
	"github.com/barbeariaprime/primeapp/internal/synccache"
)

// Env carries the handlers' dependencies. Set once at startup by InitRouter.
type Env struct {
	Cache   *synccache.Cache
	Auth    *remote.AuthClient
	Carts   *booking.SessionCarts
	Planner *booking.Planner

	// Secret signs back-office tokens; AdminPasswordHash returns the bcrypt
	// hash the back-office password is checked against.
	Secret            string
	AdminPasswordHash func() string
}

var env Env

// InitRouter stores the dependencies and registers every route on the web
// server. Call after webserver.Init.
func InitRouter(e Env) {
	env = e
	registerAuthRoutes()
	registerCatalogRoutes()
	registerShopInfoRoutes()
	registerCartRoutes()
	registerAdminRoutes()
}
