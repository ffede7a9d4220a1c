package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/queue"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// memStore is an in-memory implementation of every engine dependency. It
// enforces the same exclusivity rules as the SQL layer's unique keys, under
// a mutex, so the concurrency tests exercise real races against it.
type memStore struct {
	mu      sync.Mutex
	shows   map[uint64]model.Show
	screens map[uint64]model.Screen
	lots    map[uint64]model.ParkingLot

	seats map[seatKey]uint64 // committed seat -> booking id
	spots map[spotKey]uint64 // reserved spot -> reservation id

	points map[uint64]int64

	published []queue.BookingConfirmedEvent
	nextID    uint64
}

type seatKey struct {
	show     uint64
	row, col int
}

type spotKey struct {
	theatre         uint64
	floor, row, col int
}

func newMemStore() *memStore {
	return &memStore{
		shows:   map[uint64]model.Show{},
		screens: map[uint64]model.Screen{},
		lots:    map[uint64]model.ParkingLot{},
		seats:   map[seatKey]uint64{},
		spots:   map[spotKey]uint64{},
		points:  map[uint64]int64{},
	}
}

func (m *memStore) GetShow(_ context.Context, id uint64) (*model.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shows[id]
	if !ok {
		return nil, repository.ErrShowNotFound
	}
	return &s, nil
}

func (m *memStore) DecrementSeatsRemaining(_ context.Context, showID uint64, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shows[showID]
	if !ok {
		return repository.ErrShowNotFound
	}
	s.AvailableSeats -= n
	m.shows[showID] = s
	return nil
}

func (m *memStore) GetScreen(_ context.Context, id uint64) (*model.Screen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.screens[id]
	if !ok {
		return nil, repository.ErrScreenNotFound
	}
	return &s, nil
}

func (m *memStore) ActiveSeats(_ context.Context, showID uint64) ([]model.SeatCoord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SeatCoord
	for k := range m.seats {
		if k.show == showID {
			out = append(out, model.SeatCoord{Row: k.row, Col: k.col})
		}
	}
	return out, nil
}

func (m *memStore) CommitSeats(_ context.Context, show *model.Show, userID uint64, seats []model.SeatCoord) ([]model.SeatBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// all-or-nothing, matching the transactional SQL commit
	for _, sc := range seats {
		if _, taken := m.seats[seatKey{show.ID, sc.Row, sc.Col}]; taken {
			return nil, &repository.SeatConflictError{Seat: sc}
		}
	}
	out := make([]model.SeatBooking, 0, len(seats))
	for _, sc := range seats {
		m.nextID++
		m.seats[seatKey{show.ID, sc.Row, sc.Col}] = m.nextID
		out = append(out, model.SeatBooking{
			ID:        m.nextID,
			TheatreID: show.TheatreID,
			ScreenID:  show.ScreenID,
			ShowID:    show.ID,
			UserID:    userID,
			Row:       sc.Row,
			Col:       sc.Col,
			IsBooked:  true,
			BookedAt:  time.Now(),
		})
	}
	return out, nil
}

func (m *memStore) GetLot(_ context.Context, id uint64) (*model.ParkingLot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lots[id]
	if !ok {
		return nil, repository.ErrLotNotFound
	}
	return &l, nil
}

func (m *memStore) SpotReserved(_ context.Context, theatreID uint64, spot model.ParkingSpot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, taken := m.spots[spotKey{theatreID, spot.Floor, spot.Row, spot.Col}]
	return taken, nil
}

func (m *memStore) ReserveSpot(_ context.Context, res *model.ParkingReservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := spotKey{res.TheatreID, res.Floor, res.Row, res.Col}
	if _, taken := m.spots[k]; taken {
		return &repository.SpotConflictError{Spot: model.ParkingSpot{LotID: res.LotID, Floor: res.Floor, Row: res.Row, Col: res.Col}}
	}
	m.nextID++
	res.ID = m.nextID
	res.IsReserved = true
	m.spots[k] = res.ID
	return nil
}

func (m *memStore) Balance(_ context.Context, userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[userID], nil
}

func (m *memStore) ApplyDelta(_ context.Context, userID uint64, redeem, award int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := model.NextPointsBalance(m.points[userID], redeem, award)
	m.points[userID] = next
	return next, nil
}

func (m *memStore) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, ev)
	return nil
}

func (m *memStore) seatCount(showID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.seats {
		if k.show == showID {
			n++
		}
	}
	return n
}

// newFixture seeds one theatre with a 10x10 screen, one show at price 100
// and one ground-floor 5x5 parking lot.
func newFixture() (*memStore, *booking.Service) {
	m := newMemStore()
	m.screens[1] = model.Screen{ID: 1, TheatreID: 1, ScreenNumber: 1, TotalRows: 10, TotalColumns: 10}
	m.shows[1] = model.Show{ID: 1, TheatreID: 1, ScreenID: 1, MovieName: "Interstellar", TicketPrice: 100, AvailableSeats: 100}
	m.lots[1] = model.ParkingLot{ID: 1, TheatreID: 1, FloorNumber: 0, TotalRows: 5, TotalColumns: 5}
	return m, booking.NewService(m, m, m, m, m, m)
}

func seat(r, c int) model.SeatCoord { return model.SeatCoord{Row: r, Col: c} }

func parkingReq(lot uint64, floor, row, col int) *booking.ParkingRequest {
	return &booking.ParkingRequest{LotID: &lot, Floor: &floor, Row: &row, Col: &col}
}

func TestCreateBookingTwoSeats(t *testing.T) {
	m, svc := newFixture()

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(2, 3), seat(2, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, r.SeatsBooked)
	assert.Equal(t, 200.0, r.TotalAmount)
	assert.Equal(t, 200.0, r.FinalAmount)
	assert.Equal(t, int64(0), r.PointsUsed)
	assert.Equal(t, int64(200), r.PointsAwarded)
	assert.Equal(t, int64(200), r.PointsBalance)
	assert.False(t, r.ParkingReserved)

	// advisory counter followed the commit
	show, _ := m.GetShow(context.Background(), 1)
	assert.Equal(t, 98, show.AvailableSeats)

	require.Len(t, m.published, 1)
	assert.Equal(t, []string{"2-3", "2-4"}, m.published[0].Seats)
}

func TestCreateBookingWithParking(t *testing.T) {
	m, svc := newFixture()

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:  1,
		Seats:   []model.SeatCoord{seat(0, 0)},
		Parking: parkingReq(1, 0, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, r.TotalAmount) // ticket 100 + flat parking fee 20
	assert.True(t, r.ParkingReserved)
	require.NotNil(t, r.ParkingReservationID)

	taken, _ := m.SpotReserved(context.Background(), 1, model.ParkingSpot{LotID: 1, Floor: 0, Row: 1, Col: 1})
	assert.True(t, taken)
}

func TestCreateBookingRedeemsPoints(t *testing.T) {
	m, svc := newFixture()
	m.points[7] = 50

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:     1,
		Seats:      []model.SeatCoord{seat(1, 1)},
		PointsUsed: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.TotalAmount)
	assert.Equal(t, 70.0, r.FinalAmount)
	assert.Equal(t, int64(30), r.PointsUsed)
	assert.Equal(t, int64(70), r.PointsAwarded)
	// 50 - 30 + 70
	assert.Equal(t, int64(90), r.PointsBalance)
}

func TestCreateBookingFlooredAndClampedPointsInput(t *testing.T) {
	m, svc := newFixture()
	m.points[7] = 50

	// fractional input floors to 10
	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:     1,
		Seats:      []model.SeatCoord{seat(1, 1)},
		PointsUsed: 10.9,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.PointsUsed)

	// negative input clamps to zero instead of failing
	r, err = svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:     1,
		Seats:      []model.SeatCoord{seat(1, 2)},
		PointsUsed: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.PointsUsed)
}

func TestCreateBookingInsufficientPoints(t *testing.T) {
	m, svc := newFixture()
	m.points[7] = 5

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:     1,
		Seats:      []model.SeatCoord{seat(1, 1)},
		PointsUsed: 10,
	})
	require.Error(t, err)
	var vErr *booking.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "Insufficient points")
	assert.Contains(t, err.Error(), "You have 5 points")

	// seats were already committed when the points check failed
	require.NotNil(t, r)
	assert.Equal(t, 1, r.SeatsBooked)
	assert.Equal(t, 1, m.seatCount(1))
	// but the balance never moved
	assert.Equal(t, int64(5), m.points[7])
}

func TestCreateBookingPointsAboveBill(t *testing.T) {
	m, svc := newFixture()
	m.points[7] = 500

	_, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:     1,
		Seats:      []model.SeatCoord{seat(1, 1)},
		PointsUsed: 150, // bill is only 100
	})
	require.Error(t, err)
	var vErr *booking.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "Cannot use more points than the total amount")
}

func TestCreateBookingValidation(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  booking.Request
	}{
		{"no seats", booking.Request{ShowID: 1}},
		{"no show", booking.Request{Seats: []model.SeatCoord{seat(0, 0)}}},
		{"seat out of bounds", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(10, 0)}}},
		{"negative coordinate", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(-1, 0)}}},
		{"duplicate seat", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(1, 1), seat(1, 1)}}},
		{"incomplete parking", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(1, 1)}, Parking: &booking.ParkingRequest{}}},
		{"unknown lot", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(1, 1)}, Parking: parkingReq(9, 0, 0, 0)}},
		{"wrong floor", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(1, 1)}, Parking: parkingReq(1, 3, 0, 0)}},
		{"spot out of bounds", booking.Request{ShowID: 1, Seats: []model.SeatCoord{seat(1, 1)}, Parking: parkingReq(1, 0, 5, 0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := svc.CreateBooking(ctx, 7, tc.req)
			require.Error(t, err)
			var vErr *booking.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Nil(t, r)
		})
	}
}

func TestCreateBookingUnknownShow(t *testing.T) {
	_, svc := newFixture()
	_, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID: 42,
		Seats:  []model.SeatCoord{seat(0, 0)},
	})
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestCreateBookingSeatConflict(t *testing.T) {
	m, svc := newFixture()

	_, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(4, 4)},
	})
	require.NoError(t, err)

	// second user wants a free seat and the taken one
	r, err := svc.CreateBooking(context.Background(), 8, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(4, 5), seat(4, 4)},
	})
	require.Error(t, err)
	var conflict *repository.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Seat Row 4, Col 4 is already booked", err.Error())
	assert.Nil(t, r)

	// the free seat in the losing request was not committed either
	assert.Equal(t, 1, m.seatCount(1))
}

func TestCreateBookingParkingConflictKeepsSeats(t *testing.T) {
	m, svc := newFixture()

	// first user takes the spot
	_, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID:  1,
		Seats:   []model.SeatCoord{seat(0, 0)},
		Parking: parkingReq(1, 0, 2, 2),
	})
	require.NoError(t, err)

	r, err := svc.CreateBooking(context.Background(), 8, booking.Request{
		ShowID:  1,
		Seats:   []model.SeatCoord{seat(0, 1)},
		Parking: parkingReq(1, 0, 2, 2),
	})
	require.Error(t, err)
	var conflict *repository.SpotConflictError
	require.ErrorAs(t, err, &conflict)

	// the loser's seat stays sold and is reported back
	require.NotNil(t, r)
	assert.Equal(t, 1, r.SeatsBooked)
	assert.False(t, r.ParkingReserved)
	assert.Equal(t, 2, m.seatCount(1))
}

func TestCreateBookingAwardClampsAtCeiling(t *testing.T) {
	m, svc := newFixture()
	m.points[7] = model.PointsCeiling - 10

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(3, 3)}, // awards 100
	})
	require.NoError(t, err)
	assert.Equal(t, int64(model.PointsCeiling), r.PointsBalance)
}

func TestCreateBookingLedgerErrorPropagates(t *testing.T) {
	m, svc := newFixture()
	failing := &failingLedger{memStore: m, err: repository.ErrBalanceContention}
	svc = booking.NewService(m, m, m, m, failing, m)

	r, err := svc.CreateBooking(context.Background(), 7, booking.Request{
		ShowID: 1,
		Seats:  []model.SeatCoord{seat(6, 6)},
	})
	assert.ErrorIs(t, err, repository.ErrBalanceContention)
	// seats stay committed, the caller learns about them
	require.NotNil(t, r)
	assert.Equal(t, 1, r.SeatsBooked)
}

type failingLedger struct {
	*memStore
	err error
}

func (f *failingLedger) ApplyDelta(context.Context, uint64, int64, int64) (int64, error) {
	return 0, f.err
}

func TestConcurrentBookingsSameSeat(t *testing.T) {
	m, svc := newFixture()

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), uid, booking.Request{
				ShowID: 1,
				Seats:  []model.SeatCoord{seat(5, 5)},
			})
			results <- err
		}(uint64(i + 1))
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		var conflict *repository.SeatConflictError
		if errors.As(err, &conflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one request may win the seat")
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, m.seatCount(1))
}

func TestConcurrentBookingsSameParkingSpot(t *testing.T) {
	m, svc := newFixture()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), uint64(i+1), booking.Request{
				ShowID:  1,
				Seats:   []model.SeatCoord{seat(i/10, i%10)}, // distinct seats
				Parking: parkingReq(1, 0, 3, 3),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
		} else {
			var conflict *repository.SpotConflictError
			assert.ErrorAs(t, err, &conflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one request may win the spot")
	// every request sold its seat regardless of the parking outcome
	assert.Equal(t, workers, m.seatCount(1))
}
