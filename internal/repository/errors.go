// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation engine and handlers to distinguish between failure scenarios
// without string matching. ErrShowNotFound maps to HTTP 404, ErrForbidden
// to 403, and the typed conflict errors to 409.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrScreenNotFound indicates that a screen was not located in the DB.
var ErrScreenNotFound = errors.New("screen not found")

// ErrTheatreNotFound indicates that a theatre was not located in the DB.
var ErrTheatreNotFound = errors.New("theatre not found")

// ErrLotNotFound indicates that a parking lot was not located in the DB.
var ErrLotNotFound = errors.New("parking lot not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering with an email already in use.
var ErrEmailExists = errors.New("email already exists")

// ErrBalanceContention is returned when the points balance update loses the
// compare-and-swap race more times than the bounded retry allows.
var ErrBalanceContention = errors.New("points balance update contention")

// SeatConflictError reports a seat coordinate that is already booked for a
// show. It is produced both by the availability pre-check and by the commit
// step when the unique key on (show_id, row_number, col_number) fires, so
// callers see the same failure either way.
type SeatConflictError struct {
	Seat model.SeatCoord
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("Seat Row %d, Col %d is already booked", e.Seat.Row, e.Seat.Col)
}

// SpotConflictError reports a parking coordinate already reserved for a
// theatre, from either the pre-check or the commit-time unique key on
// (theatre_id, floor_number, row_number, col_number).
type SpotConflictError struct {
	Spot model.ParkingSpot
}

func (e *SpotConflictError) Error() string {
	return fmt.Sprintf("Parking spot floor %d, row %d, col %d is already reserved",
		e.Spot.Floor, e.Spot.Row, e.Spot.Col)
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062). The driver does not expose a typed error for this,
// so match on the number the server embeds in the message.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
