package model

import "time"

// Show represents a single scheduled screening of a movie on one screen of
// a theatre.
//
// AvailableSeats caches capacity minus booked count for display; it is
// decremented best-effort on booking and must never be consulted to decide
// whether a seat can be sold. The bookings table is the source of truth.
type Show struct {
	ID             uint64    `json:"id"`
	TheatreID      uint64    `json:"theatre_id"`
	ScreenID       uint64    `json:"screen_id"`
	MovieName      string    `json:"movie_name"`
	Language       string    `json:"language"`
	ShowDate       string    `json:"show_date"`  // "2006-01-02"
	StartTime      string    `json:"start_time"` // "15:04"
	EndTime        string    `json:"end_time"`
	TicketPrice    float64   `json:"ticket_price"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
}
