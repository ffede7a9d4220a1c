// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking fully commits.  It
// carries enough of the receipt for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingIDs      []uint64 `json:"booking_ids"`
	UserID          uint64   `json:"user_id"`
	ShowID          uint64   `json:"show_id"`
	TheatreID       uint64   `json:"theatre_id"`
	ScreenID        uint64   `json:"screen_id"`
	MovieName       string   `json:"movie_name"`
	Seats           []string `json:"seats"`
	TotalAmount     float64  `json:"total_amount"`
	FinalAmount     float64  `json:"final_amount"`
	PointsUsed      int64    `json:"points_used"`
	PointsAwarded   int64    `json:"points_awarded"`
	ParkingReserved bool     `json:"parking_reserved"`
	ConfirmedAt     string   `json:"confirmed_at"`
}
