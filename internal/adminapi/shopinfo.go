package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/webserver"
)

func registerShopInfoRoutes() {
	webserver.PubGET("/api/shopinfo", getShopInfo)
	webserver.AdminPUT("/api/admin/shopinfo", putShopInfo)
}

func getShopInfo(c echo.Context) error {
	return ok(c, env.Cache.ShopInfo())
}

func putShopInfo(c echo.Context) error {
	var info domain.ShopInfo
	if err := c.Bind(&info); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse shop info", err.Error())
	}
	if err := env.Cache.SaveShopInfo(c.Request().Context(), info); err != nil {
		return failErr(c, err)
	}
	return ok(c, env.Cache.ShopInfo())
}
