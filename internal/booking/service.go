// Package booking implements the seat and parking-spot reservation engine
// with its loyalty-points ledger step. CreateBooking is the single entry
// point: it validates the request, checks availability, commits seat rows,
// charges/redeems points and commits the optional parking spot, in that
// order, with no compensation for earlier steps when a later one fails.
// Exclusive claim of a coordinate is enforced by the store's unique keys,
// not by the availability pre-check; the pre-check is only an early exit.
package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/queue"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// ParkingFee is the flat charge, in currency units, added to the bill when
// a parking spot is requested.
const ParkingFee = 20.0

// ShowStore loads shows and maintains the advisory remaining-seat counter.
type ShowStore interface {
	GetShow(ctx context.Context, id uint64) (*model.Show, error)
	DecrementSeatsRemaining(ctx context.Context, showID uint64, n int) error
}

// ScreenStore loads a screen's grid extents for bounds validation.
type ScreenStore interface {
	GetScreen(ctx context.Context, id uint64) (*model.Screen, error)
}

// SeatInventory is the committed-seat store for shows. CommitSeats must be
// atomic per request and must fail with *repository.SeatConflictError when
// any requested coordinate is already committed, regardless of what a prior
// ActiveSeats read said.
type SeatInventory interface {
	ActiveSeats(ctx context.Context, showID uint64) ([]model.SeatCoord, error)
	CommitSeats(ctx context.Context, show *model.Show, userID uint64, seats []model.SeatCoord) ([]model.SeatBooking, error)
}

// ParkingInventory is the committed-spot store for theatres, with the same
// commit-time conflict contract as SeatInventory.
type ParkingInventory interface {
	GetLot(ctx context.Context, id uint64) (*model.ParkingLot, error)
	SpotReserved(ctx context.Context, theatreID uint64, spot model.ParkingSpot) (bool, error)
	ReserveSpot(ctx context.Context, res *model.ParkingReservation) error
}

// PointsLedger reads and atomically updates a user's loyalty balance.
type PointsLedger interface {
	Balance(ctx context.Context, userID uint64) (int64, error)
	ApplyDelta(ctx context.Context, userID uint64, redeem, award int64) (int64, error)
}

// EventPublisher announces completed bookings; failures never fail a booking.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Service is the reservation engine.
type Service struct {
	Shows   ShowStore
	Screens ScreenStore
	Seats   SeatInventory
	Parking ParkingInventory
	Ledger  PointsLedger
	Events  EventPublisher // optional
}

// NewService constructs the engine. Events may be nil; every other
// dependency is required.
func NewService(shows ShowStore, screens ScreenStore, seats SeatInventory, parking ParkingInventory, ledger PointsLedger, events EventPublisher) *Service {
	if shows == nil || screens == nil || seats == nil || parking == nil || ledger == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{Shows: shows, Screens: screens, Seats: seats, Parking: parking, Ledger: ledger, Events: events}
}

// ParkingRequest is the optional parking part of a booking request. All
// four fields must be present together; pointers distinguish absent fields
// from zero coordinates.
type ParkingRequest struct {
	LotID *uint64 `json:"parking_id"`
	Floor *int    `json:"floor_number"`
	Row   *int    `json:"row_number"`
	Col   *int    `json:"col_number"`
}

// Request is the payload of POST /v1/bookings. PointsUsed is a float so a
// fractional value can be floored rather than rejected, matching the
// lenient handling of the public API.
type Request struct {
	ShowID     uint64            `json:"show_id"`
	Seats      []model.SeatCoord `json:"seats"`
	PointsUsed float64           `json:"points_used"`
	Parking    *ParkingRequest   `json:"parking_reservation"`
}

// Receipt aggregates everything a successful (or partially successful)
// booking produced. It is not persisted; every field is derivable from the
// committed rows.
type Receipt struct {
	Bookings             []model.SeatBooking `json:"bookings"`
	TotalAmount          float64             `json:"total_amount"`
	FinalAmount          float64             `json:"final_amount"`
	PointsUsed           int64               `json:"points_used"`
	PointsAwarded        int64               `json:"points_awarded"`
	PointsBalance        int64               `json:"points_balance"`
	SeatsBooked          int                 `json:"seats_booked"`
	ParkingReserved      bool                `json:"parking_reserved"`
	ParkingReservationID *uint64             `json:"parking_reservation_id,omitempty"`
}

// CreateBooking runs the full reservation sequence for one request.
//
// Seats are the irreversible commit point: once the seat rows are in, no
// later failure (points, parking) rolls them back. A parking conflict is
// returned together with the partial receipt so callers can surface the
// seats that did sell. All other errors return a nil receipt.
func (s *Service) CreateBooking(ctx context.Context, userID uint64, req Request) (*Receipt, error) {
	// Step 1: request shape. Negative points clamp to zero, fractional
	// points floor; both are accepted rather than rejected.
	if req.ShowID == 0 {
		return nil, validationf("Missing required fields")
	}
	if len(req.Seats) == 0 {
		return nil, validationf("Missing required fields")
	}
	pointsToUse := int64(math.Floor(req.PointsUsed))
	if pointsToUse < 0 {
		pointsToUse = 0
	}
	var spot *model.ParkingSpot
	if req.Parking != nil {
		if req.Parking.LotID == nil || req.Parking.Floor == nil || req.Parking.Row == nil || req.Parking.Col == nil {
			return nil, validationf("Incomplete parking reservation")
		}
		spot = &model.ParkingSpot{
			LotID: *req.Parking.LotID,
			Floor: *req.Parking.Floor,
			Row:   *req.Parking.Row,
			Col:   *req.Parking.Col,
		}
	}

	// Step 2: load the show.
	show, err := s.Shows.GetShow(ctx, req.ShowID)
	if err != nil {
		return nil, err
	}

	// Seat coordinates must fit the screen grid and must not repeat within
	// the request; under the unique key a repeated coordinate would
	// otherwise read as a conflict against itself.
	screen, err := s.Screens.GetScreen(ctx, show.ScreenID)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.SeatCoord]struct{}, len(req.Seats))
	for _, sc := range req.Seats {
		if sc.Row < 0 || sc.Col < 0 || sc.Row >= screen.TotalRows || sc.Col >= screen.TotalColumns {
			return nil, validationf("Seat Row %d, Col %d is outside the screen grid", sc.Row, sc.Col)
		}
		if _, dup := seen[sc]; dup {
			return nil, validationf("Seat Row %d, Col %d is requested more than once", sc.Row, sc.Col)
		}
		seen[sc] = struct{}{}
	}
	if spot != nil {
		if err := s.validateSpot(ctx, show, *spot); err != nil {
			return nil, err
		}
	}

	// Step 3: availability pre-check, reporting the first conflicting
	// coordinate in request order. The unique key at commit remains the
	// safety mechanism; this is the cheap early exit.
	if conflict, err := s.CheckSeats(ctx, req.ShowID, req.Seats); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, &repository.SeatConflictError{Seat: *conflict}
	}

	// Step 4: commit the seat rows. From here on the seats are sold.
	bookings, err := s.Seats.CommitSeats(ctx, show, userID, req.Seats)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Bookings:    bookings,
		SeatsBooked: len(bookings),
	}

	// Step 5: advisory counter, best-effort.
	if err := s.Shows.DecrementSeatsRemaining(ctx, req.ShowID, len(bookings)); err != nil {
		log.Printf("booking: seats_remaining update failed for show %d: %v", req.ShowID, err)
	}

	// Step 6: parking availability. A taken spot fails the request with a
	// conflict, but the seats above stay committed and are reported.
	if spot != nil {
		taken, err := s.Parking.SpotReserved(ctx, show.TheatreID, *spot)
		if err != nil {
			return receipt, err
		}
		if taken {
			return receipt, &repository.SpotConflictError{Spot: *spot}
		}
	}

	// Step 7: pricing.
	totalAmount := show.TicketPrice * float64(len(bookings))
	if spot != nil {
		totalAmount += ParkingFee
	}
	receipt.TotalAmount = totalAmount

	// Step 8: points validation against the live balance and the bill.
	currentPoints, err := s.Ledger.Balance(ctx, userID)
	if err != nil {
		return receipt, err
	}
	if pointsToUse > 0 {
		if pointsToUse > currentPoints {
			return receipt, validationf("Insufficient points. You have %d points, but trying to use %d", currentPoints, pointsToUse)
		}
		if float64(pointsToUse) > totalAmount {
			return receipt, validationf("Cannot use more points than the total amount (%v)", totalAmount)
		}
	}

	// Step 9: one point earned per whole currency unit actually paid.
	finalAmount := totalAmount - float64(pointsToUse)
	if finalAmount < 0 {
		finalAmount = 0
	}
	pointsAwarded := int64(math.Floor(finalAmount))

	// Step 10: single atomic balance write (CAS inside the ledger).
	newBalance, err := s.Ledger.ApplyDelta(ctx, userID, pointsToUse, pointsAwarded)
	if err != nil {
		return receipt, err
	}
	receipt.FinalAmount = finalAmount
	receipt.PointsUsed = pointsToUse
	receipt.PointsAwarded = pointsAwarded
	receipt.PointsBalance = newBalance

	// Step 11: commit the parking row. Mirrors the request order of the
	// public API: points settle before parking, so a losing race here
	// leaves seats and points committed.
	if spot != nil {
		res := &model.ParkingReservation{
			TheatreID: show.TheatreID,
			LotID:     spot.LotID,
			UserID:    userID,
			Floor:     spot.Floor,
			Row:       spot.Row,
			Col:       spot.Col,
		}
		if err := s.Parking.ReserveSpot(ctx, res); err != nil {
			var conflict *repository.SpotConflictError
			if errors.As(err, &conflict) {
				return receipt, conflict
			}
			return receipt, err
		}
		receipt.ParkingReserved = true
		receipt.ParkingReservationID = &res.ID
	}

	s.publishConfirmed(ctx, userID, show, receipt)
	return receipt, nil
}

// validateSpot checks the parking request against the lot's grid before any
// side effect: the lot must exist, belong to the show's theatre, match the
// requested floor and contain the (row, col) position.
func (s *Service) validateSpot(ctx context.Context, show *model.Show, spot model.ParkingSpot) error {
	lot, err := s.Parking.GetLot(ctx, spot.LotID)
	if err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			return validationf("Unknown parking lot %d", spot.LotID)
		}
		return err
	}
	if lot.TheatreID != show.TheatreID {
		return validationf("Parking lot %d does not belong to this theatre", spot.LotID)
	}
	if spot.Floor != lot.FloorNumber {
		return validationf("Parking lot %d is floor %d, not floor %d", spot.LotID, lot.FloorNumber, spot.Floor)
	}
	if spot.Row < 0 || spot.Col < 0 || spot.Row >= lot.TotalRows || spot.Col >= lot.TotalColumns {
		return validationf("Parking spot row %d, col %d is outside the lot grid", spot.Row, spot.Col)
	}
	return nil
}

func (s *Service) publishConfirmed(ctx context.Context, userID uint64, show *model.Show, r *Receipt) {
	if s.Events == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		UserID:          userID,
		ShowID:          show.ID,
		TheatreID:       show.TheatreID,
		ScreenID:        show.ScreenID,
		MovieName:       show.MovieName,
		TotalAmount:     r.TotalAmount,
		FinalAmount:     r.FinalAmount,
		PointsUsed:      r.PointsUsed,
		PointsAwarded:   r.PointsAwarded,
		ParkingReserved: r.ParkingReserved,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	for _, b := range r.Bookings {
		ev.BookingIDs = append(ev.BookingIDs, b.ID)
		ev.Seats = append(ev.Seats, coordKey(b.Row, b.Col))
	}
	if err := s.Events.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish booking.confirmed failed: %v", err)
	}
}
