package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/model"
)

func TestCheckSeatsReportsFirstConflictInRequestOrder(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	// occupy two seats
	_, err := svc.CreateBooking(ctx, 1, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(8, 8), seat(9, 9)},
	})
	require.NoError(t, err)

	// both taken seats appear, but the first one *in the request* wins
	conflict, err := svc.CheckSeats(ctx, 1, []model.SeatCoord{seat(0, 0), seat(9, 9), seat(8, 8)})
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, seat(9, 9), *conflict)

	conflict, err = svc.CheckSeats(ctx, 1, []model.SeatCoord{seat(1, 1), seat(2, 2)})
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckParkingSpot(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	taken, err := svc.CheckParkingSpot(ctx, 1, model.ParkingSpot{LotID: 1, Floor: 0, Row: 0, Col: 0})
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = svc.CreateBooking(ctx, 1, booking.Request{
		ShowID:  1,
		Seats:   []model.SeatCoord{seat(7, 7)},
		Parking: parkingReq(1, 0, 0, 0),
	})
	require.NoError(t, err)

	taken, err = svc.CheckParkingSpot(ctx, 1, model.ParkingSpot{LotID: 1, Floor: 0, Row: 0, Col: 0})
	require.NoError(t, err)
	assert.True(t, taken)
}
