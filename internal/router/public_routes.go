package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/handler"
)

// RegisterPublic registers the guest browse surface: active
// attractions, their bookable dates and time slots, price quotes and
// booking creation.  No authentication is applied; inactive
// attractions behave as missing on every route.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, bk *handler.BookingHandler) {
	e.GET("/v1/attractions", cat.List)
	e.GET("/v1/attractions/:id", cat.Get)
	// Bookable calendar dates over the coming window (?days= widens it).
	e.GET("/v1/attractions/:id/dates", cat.Dates)
	// Offerable slots for one date (?date=YYYY-MM-DD).
	e.GET("/v1/attractions/:id/times", cat.Times)
	// Price a hypothetical sale without persisting anything.
	e.POST("/v1/attractions/:id/quote", cat.Quote)

	// Customers book without an account; the wizard guards inside the
	// handler enforce the full selection sequence.
	e.POST("/v1/bookings", bk.Create)
}
