package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/barbeariaprime/primeapp/internal/webserver"
)

func registerCartRoutes() {
	webserver.PubGET("/api/cart", getCart)
	webserver.PubPOST("/api/cart/items", postCartItem)
	webserver.PubDELETE("/api/cart/items/:index", deleteCartItem)
	webserver.PubDELETE("/api/cart", clearCart)
	webserver.PubGET("/api/booking/whatsapp", getBookingWhatsapp)
}

func getCart(c echo.Context) error {
	cart := env.Carts.Get(sessionKey(c))
	return ok(c, map[string]interface{}{
		"items": cart.Items(),
		"total": cart.Total(),
	})
}

type cartItemPayload struct {
	ServiceID string `json:"service_id"`
}

func postCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	svc, found := env.Cache.GetService(payload.ServiceID)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Service not found", nil)
	}
	cart := env.Carts.Get(sessionKey(c))
	cart.Add(svc)
	return ok(c, map[string]interface{}{
		"items": cart.Items(),
		"total": cart.Total(),
	})
}

func deleteCartItem(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Cart index must be a number", nil)
	}
	cart := env.Carts.Get(sessionKey(c))
	if err := cart.Remove(index); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", err.Error(), nil)
	}
	return ok(c, map[string]interface{}{
		"items": cart.Items(),
		"total": cart.Total(),
	})
}

func clearCart(c echo.Context) error {
	env.Carts.Get(sessionKey(c)).Clear()
	return ok(c, map[string]interface{}{"cleared": true})
}

// redirectSink satisfies the booking link sink; the handler redirects the
// client instead of opening anything itself.
type redirectSink struct {
	link string
}

func (s *redirectSink) Open(url string) error {
	s.link = url
	return nil
}

// getBookingWhatsapp finalizes the session cart into a wa.me deep link and
// answers with a 302 so the client lands in the WhatsApp conversation.
func getBookingWhatsapp(c echo.Context) error {
	if date, tm := c.QueryParam("date"), c.QueryParam("time"); date != "" || tm != "" {
		env.Planner.SetSchedule(date, tm)
	}
	cart := env.Carts.Get(sessionKey(c))
	sink := &redirectSink{}
	link, err := env.Planner.Finalize(cart, env.Cache.ShopInfo().Whatsapp, sink)
	if err != nil {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", err.Error(), nil)
	}
	return c.Redirect(http.StatusFound, link)
}
