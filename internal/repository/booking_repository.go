package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// BookingRepo is the seat inventory: committed seat bookings per show.
// The unique key on (show_id, row_number, col_number) is the authoritative
// double-booking guard; the availability read is only an early exit.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ActiveSeats returns the coordinates of all committed bookings for a show.
func (r *BookingRepo) ActiveSeats(ctx context.Context, showID uint64) ([]model.SeatCoord, error) {
	// row_number is a reserved word in MySQL 8, hence the quoting
	const q = "SELECT `row_number`, col_number FROM bookings WHERE show_id = ? AND is_booked = 1"
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatCoord
	for rows.Next() {
		var sc model.SeatCoord
		if err := rows.Scan(&sc.Row, &sc.Col); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CommitSeats inserts one booking row per requested seat inside a single
// transaction.  Rows are inserted in request order so that when the unique
// key on (show_id, row_number, col_number) fires, the returned
// SeatConflictError names the first conflicting coordinate in request
// order, identical to what the availability pre-check would have reported.
// On any failure the transaction rolls back and no seats are committed; on
// success all seats of the request are committed together.
func (r *BookingRepo) CommitSeats(ctx context.Context, show *model.Show, userID uint64, seats []model.SeatCoord) ([]model.SeatBooking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = "INSERT INTO bookings (theatre_id, screen_id, show_id, user_id, `row_number`, col_number, is_booked)" +
		" VALUES (?, ?, ?, ?, ?, ?, 1)"
	const sel = "SELECT id, booked_at FROM bookings WHERE id = ?"

	out := make([]model.SeatBooking, 0, len(seats))
	for _, sc := range seats {
		res, err := tx.ExecContext(ctx, ins, show.TheatreID, show.ScreenID, show.ID, userID, sc.Row, sc.Col)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, &SeatConflictError{Seat: sc}
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		b := model.SeatBooking{
			ID:        uint64(id),
			TheatreID: show.TheatreID,
			ScreenID:  show.ScreenID,
			ShowID:    show.ID,
			UserID:    userID,
			Row:       sc.Row,
			Col:       sc.Col,
			IsBooked:  true,
		}
		if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.ID, &b.BookedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return out, nil
}

// ListGroupedByUser returns the user's bookings joined with show, theatre
// and screen details, grouped by show for display, most recent first.
func (r *BookingRepo) ListGroupedByUser(ctx context.Context, userID uint64) ([]model.BookingGroup, error) {
	const q = "SELECT b.show_id, b.`row_number`, b.col_number, b.booked_at," +
		" s.movie_name, s.language, s.show_date, s.start_time, s.end_time, s.ticket_price," +
		" t.theatre_name, t.city, t.state, sc.screen_number" +
		" FROM bookings b" +
		" JOIN shows s ON s.id = b.show_id" +
		" JOIN theatres t ON t.id = b.theatre_id" +
		" JOIN screens sc ON sc.id = b.screen_id" +
		" WHERE b.user_id = ? AND b.is_booked = 1" +
		" ORDER BY b.booked_at DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(map[uint64]*model.BookingGroup)
	var order []uint64
	for rows.Next() {
		var (
			g    model.BookingGroup
			seat model.SeatCoord
		)
		if err := rows.Scan(&g.ShowID, &seat.Row, &seat.Col, &g.BookedAt,
			&g.MovieName, &g.Language, &g.ShowDate, &g.StartTime, &g.EndTime, &g.TicketPrice,
			&g.TheatreName, &g.City, &g.State, &g.ScreenNo); err != nil {
			return nil, err
		}
		grp, ok := groups[g.ShowID]
		if !ok {
			grp = &g
			groups[g.ShowID] = grp
			order = append(order, g.ShowID)
		}
		grp.Seats = append(grp.Seats, seat)
		grp.TotalAmount += grp.TicketPrice
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.BookingGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	return out, nil
}
