package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) CreateBooking(ctx context.Context, userID uint64, req booking.Request) (*booking.Receipt, error) {
	args := m.Called(ctx, userID, req)
	var r *booking.Receipt
	if v := args.Get(0); v != nil {
		r = v.(*booking.Receipt)
	}
	return r, args.Error(1)
}

func postBooking(t *testing.T, engine ReservationEngine, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &CustomerHandler{Engine: engine, Bookings: &repository.BookingRepo{}, Users: &repository.UserRepo{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.CreateBooking(c))
	return rec
}

func TestCreateBookingHandlerSuccess(t *testing.T) {
	eng := new(mockEngine)
	receipt := &booking.Receipt{
		SeatsBooked:   2,
		TotalAmount:   200,
		FinalAmount:   200,
		PointsAwarded: 200,
		PointsBalance: 200,
	}
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).Return(receipt, nil)

	rec := postBooking(t, eng, `{"show_id":1,"seats":[{"row_number":0,"col_number":0},{"row_number":0,"col_number":1}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seats_booked":2`)
	eng.AssertExpectations(t)
}

func TestCreateBookingHandlerPassesRequestThrough(t *testing.T) {
	eng := new(mockEngine)
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.MatchedBy(func(r booking.Request) bool {
		return r.ShowID == 3 && len(r.Seats) == 1 && r.Seats[0] == model.SeatCoord{Row: 4, Col: 5} && r.PointsUsed == 10
	})).Return(&booking.Receipt{SeatsBooked: 1}, nil)

	rec := postBooking(t, eng, `{"show_id":3,"seats":[{"row_number":4,"col_number":5}],"points_used":10}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	eng.AssertExpectations(t)
}

func TestCreateBookingHandlerShowNotFound(t *testing.T) {
	eng := new(mockEngine)
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).
		Return(nil, repository.ErrShowNotFound)

	rec := postBooking(t, eng, `{"show_id":42,"seats":[{"row_number":0,"col_number":0}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "show not found")
}

func TestCreateBookingHandlerSeatConflict(t *testing.T) {
	eng := new(mockEngine)
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).
		Return(nil, &repository.SeatConflictError{Seat: model.SeatCoord{Row: 1, Col: 2}})

	rec := postBooking(t, eng, `{"show_id":1,"seats":[{"row_number":1,"col_number":2}]}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seat Row 1, Col 2 is already booked")
	assert.NotContains(t, rec.Body.String(), `"booking"`)
}

func TestCreateBookingHandlerParkingConflictCarriesPartialReceipt(t *testing.T) {
	eng := new(mockEngine)
	partial := &booking.Receipt{SeatsBooked: 1, TotalAmount: 120}
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).
		Return(partial, &repository.SpotConflictError{Spot: model.ParkingSpot{LotID: 1, Floor: 0, Row: 2, Col: 2}})

	rec := postBooking(t, eng, `{"show_id":1,"seats":[{"row_number":0,"col_number":0}],"parking_reservation":{"parking_id":1,"floor_number":0,"row_number":2,"col_number":2}}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "already reserved")
	// the seats that did sell are reported alongside the error
	assert.Contains(t, body, `"booking"`)
	assert.Contains(t, body, `"seats_booked":1`)
}

func TestCreateBookingHandlerValidation(t *testing.T) {
	eng := new(mockEngine)
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).
		Return(nil, &booking.ValidationError{})

	rec := postBooking(t, eng, `{"show_id":1,"seats":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingHandlerInfraError(t *testing.T) {
	eng := new(mockEngine)
	eng.On("CreateBooking", mock.Anything, uint64(7), mock.Anything).
		Return(nil, assert.AnError)

	rec := postBooking(t, eng, `{"show_id":1,"seats":[{"row_number":0,"col_number":0}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// internal detail is not leaked
	assert.Contains(t, rec.Body.String(), "booking failed")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestCreateBookingHandlerRejectsMissingIdentity(t *testing.T) {
	eng := new(mockEngine)
	h := &CustomerHandler{Engine: eng, Bookings: &repository.BookingRepo{}, Users: &repository.UserRepo{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	eng.AssertNotCalled(t, "CreateBooking")
}
