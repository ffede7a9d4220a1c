package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/middleware"
)

// RegisterCustomer registers the booking endpoints under /v1. All routes
// require a valid JWT; owners book seats like anyone else, so both roles
// are accepted. Booking creation is additionally rate limited per user so
// a single client cannot hammer the commit path.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "OWNER"),
	)
	g.POST("/bookings", h.CreateBooking, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.GET("/bookings", h.ListBookings)
	g.GET("/me/points", h.Points)
}
