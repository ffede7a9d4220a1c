package model

import "time"

// SeatCoord is a 0-based (row, col) position inside a screen's grid.
type SeatCoord struct {
	Row int `json:"row_number"`
	Col int `json:"col_number"`
}

// SeatBooking is one committed seat for one show.  Rows are created only
// by the reservation engine and never mutated; the unique key on
// (show_id, row_number, col_number) is what makes a seat sold exactly once.
type SeatBooking struct {
	ID        uint64    `json:"id"`         // bookings.id
	TheatreID uint64    `json:"theatre_id"` // bookings.theatre_id
	ScreenID  uint64    `json:"screen_id"`  // bookings.screen_id
	ShowID    uint64    `json:"show_id"`    // bookings.show_id
	UserID    uint64    `json:"user_id"`    // bookings.user_id
	Row       int       `json:"row_number"` // bookings.row_number
	Col       int       `json:"col_number"` // bookings.col_number
	IsBooked  bool      `json:"is_booked"`  // bookings.is_booked
	BookedAt  time.Time `json:"booked_at"`  // bookings.booked_at
}

// BookingGroup aggregates a user's seats for one show, the shape returned
// by GET /v1/bookings.
type BookingGroup struct {
	ShowID      uint64      `json:"show_id"`
	MovieName   string      `json:"movie_name"`
	Language    string      `json:"language"`
	ShowDate    string      `json:"show_date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	TicketPrice float64     `json:"ticket_price"`
	TheatreName string      `json:"theatre_name"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	ScreenNo    int         `json:"screen_number"`
	BookedAt    time.Time   `json:"booked_at"`
	Seats       []SeatCoord `json:"seats"`
	TotalAmount float64     `json:"total_amount"`
}
