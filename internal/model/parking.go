package model

import "time"

// ParkingLot is one floor of a theatre's parking structure with a fixed
// TotalRows by TotalColumns grid of spots.
type ParkingLot struct {
	ID           uint64    `json:"id"`
	TheatreID    uint64    `json:"theatre_id"`
	FloorNumber  int       `json:"floor_number"`
	TotalRows    int       `json:"total_rows"`
	TotalColumns int       `json:"total_columns"`
	CreatedAt    time.Time `json:"created_at"`
}

// ParkingSpot is a 0-based (floor, row, col) position inside a theatre's
// parking structure.  LotID names the parkings row the floor belongs to.
type ParkingSpot struct {
	LotID uint64 `json:"parking_id"`
	Floor int    `json:"floor_number"`
	Row   int    `json:"row_number"`
	Col   int    `json:"col_number"`
}

// ParkingReservation is a committed spot.  Reservations are theatre-scoped,
// not show-scoped: once taken a spot stays taken across all shows (there is
// no release path).  The unique key on (theatre_id, floor_number,
// row_number, col_number) makes a spot sold exactly once.
type ParkingReservation struct {
	ID         uint64    `json:"id"`
	TheatreID  uint64    `json:"theatre_id"`
	LotID      uint64    `json:"parking_id"`
	UserID     uint64    `json:"user_id"`
	Floor      int       `json:"floor_number"`
	Row        int       `json:"row_number"`
	Col        int       `json:"col_number"`
	IsReserved bool      `json:"is_reserved"`
	ReservedAt time.Time `json:"reserved_at"`
}
