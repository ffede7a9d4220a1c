package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// ReservationEngine is the slice of the booking service the customer
// handler needs. Narrow on purpose so handler tests can mock it.
type ReservationEngine interface {
	CreateBooking(ctx context.Context, userID uint64, req booking.Request) (*booking.Receipt, error)
}

// CustomerHandler serves booking creation, booking history and the loyalty
// balance for authenticated customers.
type CustomerHandler struct {
	Engine   ReservationEngine
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

func NewCustomerHandler(engine ReservationEngine, bookings *repository.BookingRepo, users *repository.UserRepo) *CustomerHandler {
	if engine == nil || bookings == nil || users == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, Bookings: bookings, Users: users}
}

// CreateBooking handles POST /v1/bookings. Seats commit first and are never
// rolled back, so conflict responses for the parking step carry the partial
// receipt: the caller's seats are sold even though the request failed.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req booking.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	receipt, err := h.Engine.CreateBooking(ctx, uid, req)
	if err != nil {
		return bookingError(c, receipt, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

// bookingError maps engine errors onto HTTP responses. When a partial
// receipt exists it is merged into the error body under "booking".
func bookingError(c echo.Context, receipt *booking.Receipt, err error) error {
	body := echo.Map{"error": err.Error()}
	if receipt != nil && receipt.SeatsBooked > 0 {
		body["booking"] = receipt
	}

	var vErr *booking.ValidationError
	var seatErr *repository.SeatConflictError
	var spotErr *repository.SpotConflictError
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, repository.ErrShowNotFound), errors.Is(err, repository.ErrScreenNotFound):
		return c.JSON(http.StatusNotFound, body)
	case errors.As(err, &seatErr), errors.As(err, &spotErr), errors.Is(err, repository.ErrBalanceContention):
		return c.JSON(http.StatusConflict, body)
	default:
		body["error"] = "booking failed"
		return c.JSON(http.StatusInternalServerError, body)
	}
}

// ListBookings handles GET /v1/bookings: the caller's bookings grouped by
// show, newest first.
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Bookings.ListGroupedByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if groups == nil {
		groups = []model.BookingGroup{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": groups})
}

// Points handles GET /v1/me/points.
func (h *CustomerHandler) Points(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	points, err := h.Users.Balance(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"points": points})
}
