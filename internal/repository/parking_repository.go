package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// ParkingRepo covers the parkings table (lots, one row per floor of a
// theatre's parking structure) and the parking_reservations table (committed
// spots). Reservations are theatre-scoped and never released; the unique
// key on (theatre_id, floor_number, row_number, col_number) is the
// authoritative double-parking guard.
type ParkingRepo struct {
	db *sql.DB
}

// NewParkingRepo returns a ParkingRepo bound to the given database.
func NewParkingRepo(db *sql.DB) *ParkingRepo { return &ParkingRepo{db: db} }

// CreateLot inserts a parking floor for a theatre.
func (r *ParkingRepo) CreateLot(ctx context.Context, lot *model.ParkingLot) error {
	const q = `INSERT INTO parkings (theatre_id, floor_number, total_rows, total_columns) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, lot.TheatreID, lot.FloorNumber, lot.TotalRows, lot.TotalColumns)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lot.ID = uint64(id)
	return nil
}

// GetLot loads a parking floor by primary key; the reservation engine uses
// the grid extents to bounds-check a requested spot.
func (r *ParkingRepo) GetLot(ctx context.Context, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, theatre_id, floor_number, total_rows, total_columns FROM parkings WHERE id = ?`
	var lot model.ParkingLot
	err := r.db.QueryRowContext(ctx, q, id).Scan(&lot.ID, &lot.TheatreID, &lot.FloorNumber, &lot.TotalRows, &lot.TotalColumns)
	if err == sql.ErrNoRows {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// ListLots returns all parking floors of a theatre ordered by floor.
func (r *ParkingRepo) ListLots(ctx context.Context, theatreID uint64) ([]model.ParkingLot, error) {
	const q = `SELECT id, theatre_id, floor_number, total_rows, total_columns FROM parkings WHERE theatre_id = ? ORDER BY floor_number`
	rows, err := r.db.QueryContext(ctx, q, theatreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ParkingLot
	for rows.Next() {
		var lot model.ParkingLot
		if err := rows.Scan(&lot.ID, &lot.TheatreID, &lot.FloorNumber, &lot.TotalRows, &lot.TotalColumns); err != nil {
			return nil, err
		}
		out = append(out, lot)
	}
	return out, rows.Err()
}

// SpotReserved reports whether the spot is already committed for the theatre.
func (r *ParkingRepo) SpotReserved(ctx context.Context, theatreID uint64, spot model.ParkingSpot) (bool, error) {
	// row_number is a reserved word in MySQL 8, hence the quoting
	const q = "SELECT 1 FROM parking_reservations" +
		" WHERE theatre_id = ? AND floor_number = ? AND `row_number` = ? AND col_number = ? AND is_reserved = 1" +
		" LIMIT 1"
	var one int
	err := r.db.QueryRowContext(ctx, q, theatreID, spot.Floor, spot.Row, spot.Col).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReserveSpot commits a parking reservation.  A duplicate-key failure on
// the coordinate unique key is returned as SpotConflictError so commit-time
// races report exactly like the pre-check.
func (r *ParkingRepo) ReserveSpot(ctx context.Context, res *model.ParkingReservation) error {
	const q = "INSERT INTO parking_reservations (theatre_id, parking_id, user_id, floor_number, `row_number`, col_number, is_reserved)" +
		" VALUES (?, ?, ?, ?, ?, ?, 1)"
	result, err := r.db.ExecContext(ctx, q, res.TheatreID, res.LotID, res.UserID, res.Floor, res.Row, res.Col)
	if err != nil {
		if isDuplicateKey(err) {
			return &SpotConflictError{Spot: model.ParkingSpot{LotID: res.LotID, Floor: res.Floor, Row: res.Row, Col: res.Col}}
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.IsReserved = true
	return nil
}

// ListReservedSpots returns the committed spots of a theatre as
// "parkingID-floor-row-col" keys, the wire format the seat-map client uses.
func (r *ParkingRepo) ListReservedSpots(ctx context.Context, theatreID uint64) ([]model.ParkingSpot, error) {
	const q = "SELECT parking_id, floor_number, `row_number`, col_number FROM parking_reservations" +
		" WHERE theatre_id = ? AND is_reserved = 1"
	rows, err := r.db.QueryContext(ctx, q, theatreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ParkingSpot
	for rows.Next() {
		var sp model.ParkingSpot
		if err := rows.Scan(&sp.LotID, &sp.Floor, &sp.Row, &sp.Col); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
