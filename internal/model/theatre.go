package model

import "time"

// Theatre is a venue owned by one OWNER user.  Screens and parking lots
// hang off a theatre; shows reference both the theatre and a screen.
type Theatre struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Name      string    `json:"theatre_name"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// Screen is an auditorium inside a theatre with a fixed seat grid of
// TotalRows by TotalColumns.  Seats have no identity of their own; a seat
// is just a 0-based (row, col) position inside this grid.
type Screen struct {
	ID           uint64    `json:"id"`
	TheatreID    uint64    `json:"theatre_id"`
	ScreenNumber int       `json:"screen_number"`
	TotalRows    int       `json:"total_rows"`
	TotalColumns int       `json:"total_columns"`
	CreatedAt    time.Time `json:"created_at"`
}
