package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/handler"
	"github.com/iliyamo/attraction-reservation/internal/middleware"
	"github.com/iliyamo/attraction-reservation/internal/model"
)

// RegisterAdmin registers catalog management, which only ADMIN
// accounts may touch.  Each admin manages their own attractions.
func RegisterAdmin(e *echo.Echo, jwtSecret string, at *handler.AttractionHandler) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/attractions", at.Create)
	g.GET("/attractions", at.List)
	g.GET("/attractions/:id", at.Get)
	g.PUT("/attractions/:id", at.Update)
	g.DELETE("/attractions/:id", at.Delete)
}

// RegisterStaff registers the operational endpoints shared by ADMIN
// and STAFF: booking review, counter sales and the gift instrument
// ledger.
func RegisterStaff(e *echo.Echo, jwtSecret string,
	bk *handler.BookingHandler, cs *handler.CounterSaleHandler, gi *handler.GiftInstrumentHandler) {

	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	g.GET("/bookings", bk.List)
	g.GET("/bookings/:id", bk.Get)

	g.POST("/purchases", cs.Create)
	g.GET("/purchases", cs.List)
	g.GET("/purchases/:id", cs.Get)

	g.POST("/gift-instruments", gi.Create)
	g.GET("/gift-instruments", gi.List)
	g.GET("/gift-instruments/:id", gi.Get)
	g.PATCH("/gift-instruments/:id", gi.Update)
	g.POST("/gift-instruments/:id/activate", gi.Activate)
	g.POST("/gift-instruments/:id/deactivate", gi.Deactivate)
	g.DELETE("/gift-instruments/:id", gi.Delete)
}
