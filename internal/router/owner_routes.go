package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1. All routes
// require a valid JWT and the OWNER role; ownership of the target theatre
// is checked inside the handlers.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	g.POST("/theatres", o.CreateTheatre)
	g.POST("/theatres/:id/screens", o.CreateScreen)
	g.POST("/theatres/:id/parkings", o.CreateParkingLot)
	g.POST("/shows", o.CreateShow)
}
