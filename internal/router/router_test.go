package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/router"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

const testSecret = "router-test-secret"

type stubEngine struct{}

func (stubEngine) CreateBooking(context.Context, uint64, booking.Request) (*booking.Receipt, error) {
	return &booking.Receipt{SeatsBooked: 1}, nil
}

func newBookingServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	h := &handler.CustomerHandler{
		Engine:   stubEngine{},
		Bookings: &repository.BookingRepo{},
		Users:    &repository.UserRepo{},
	}
	router.RegisterCustomer(e, h, testSecret, nil)
	return e
}

func doBooking(t *testing.T, e *echo.Echo, role string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 7, role, 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings",
		strings.NewReader(`{"show_id":1,"seats":[{"row_number":0,"col_number":0}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Owners book seats like anyone else; the booking group must accept both
// roles, not just CUSTOMER.
func TestBookingRoutesAcceptBothRoles(t *testing.T) {
	e := newBookingServer(t)

	for _, role := range []string{"CUSTOMER", "OWNER"} {
		t.Run(role, func(t *testing.T) {
			rec := doBooking(t, e, role)
			assert.Equal(t, http.StatusCreated, rec.Code)
		})
	}
}

func TestBookingRoutesRejectUnknownRole(t *testing.T) {
	e := newBookingServer(t)

	rec := doBooking(t, e, "GUEST")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingRoutesRejectMissingToken(t *testing.T) {
	e := newBookingServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// The refresh-access operation must be routed; a missing refresh_token is
// rejected by the handler before any store access, which is enough to tell
// a registered route (400) from an unregistered one (404).
func TestRefreshAccessRouteRegistered(t *testing.T) {
	e := echo.New()
	a := handler.NewAuthHandler(config.Config{JWTSecret: testSecret}, &repository.UserRepo{}, &repository.TokenRepo{})
	router.RegisterAuth(e, a, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh-access", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_token required")
}
