package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barbeariaprime/primeapp/internal/booking"
	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/api/services", listServices)
	webserver.PubGET("/api/services/:id", getService)
	webserver.PubGET("/api/services/:id/whatsapp", getServiceWhatsapp)
	webserver.PubGET("/api/products", listProducts)
	webserver.PubGET("/api/products/:id", getProduct)

	webserver.AdminPOST("/api/admin/services", upsertService)
	webserver.AdminDELETE("/api/admin/services/:id", deleteService)
	webserver.AdminPOST("/api/admin/products", upsertProduct)
	webserver.AdminDELETE("/api/admin/products/:id", deleteProduct)
}

// Reads never hit the remote store; they serve the working set, which already
// embeds the fallback chain.

func listServices(c echo.Context) error {
	return ok(c, env.Cache.Services())
}

func getService(c echo.Context) error {
	svc, found := env.Cache.GetService(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	return ok(c, svc)
}

// getServiceWhatsapp redirects to a wa.me deep link pre-filled with the
// single-service booking message.
func getServiceWhatsapp(c echo.Context) error {
	svc, found := env.Cache.GetService(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	link := booking.Link(env.Cache.ShopInfo().Whatsapp, booking.ServiceMessage(svc.Name))
	return c.Redirect(http.StatusFound, link)
}

func listProducts(c echo.Context) error {
	return ok(c, env.Cache.Products())
}

func getProduct(c echo.Context) error {
	p, found := env.Cache.GetProduct(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// Writes go through the cache's write-through path: remote first, working
// set and snapshot only on success.

func upsertService(c echo.Context) error {
	var svc domain.BarberService
	if err := c.Bind(&svc); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	saved, err := env.Cache.UpsertService(c.Request().Context(), svc)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, saved)
}

func deleteService(c echo.Context) error {
	if err := env.Cache.DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"deleted": true})
}

func upsertProduct(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	saved, err := env.Cache.UpsertProduct(c.Request().Context(), p)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, saved)
}

func deleteProduct(c echo.Context) error {
	if err := env.Cache.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"deleted": true})
}
