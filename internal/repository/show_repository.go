// Package repository contains the data access layer. This file covers the
// shows table. A show is loaded by the reservation engine for pricing and
// routing (theatre/screen ids); its available_seats column is an advisory
// display counter, decremented best-effort after a successful booking.
package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create inserts a new show and populates the generated ID on the given Show.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (theatre_id, screen_id, movie_name, language, show_date, start_time, end_time, ticket_price, available_seats)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.TheatreID, s.ScreenID, s.MovieName, s.Language,
		s.ShowDate, s.StartTime, s.EndTime, s.TicketPrice, s.AvailableSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetShow loads a show by primary key.  Returns ErrShowNotFound when the id
// does not exist.
func (r *ShowRepo) GetShow(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, theatre_id, screen_id, movie_name, language, show_date, start_time, end_time, ticket_price, available_seats
	           FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.TheatreID, &s.ScreenID, &s.MovieName, &s.Language,
		&s.ShowDate, &s.StartTime, &s.EndTime, &s.TicketPrice, &s.AvailableSeats)
	if err == sql.ErrNoRows {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DecrementSeatsRemaining lowers the advisory remaining-seat counter after a
// booking commit.  The counter is display-only; callers log and swallow a
// failure so the booking itself still succeeds.
func (r *ShowRepo) DecrementSeatsRemaining(ctx context.Context, showID uint64, n int) error {
	const q = `UPDATE shows SET available_seats = available_seats - ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, n, showID); err != nil {
		log.Printf("shows: decrement available_seats for show %d failed: %v", showID, err)
		return err
	}
	return nil
}

// ListByTheatre returns all shows scheduled for a theatre, newest first.
func (r *ShowRepo) ListByTheatre(ctx context.Context, theatreID uint64) ([]model.Show, error) {
	const q = `SELECT id, theatre_id, screen_id, movie_name, language, show_date, start_time, end_time, ticket_price, available_seats
	           FROM shows WHERE theatre_id = ? ORDER BY show_date DESC, start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, theatreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Show
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.TheatreID, &s.ScreenID, &s.MovieName, &s.Language,
			&s.ShowDate, &s.StartTime, &s.EndTime, &s.TicketPrice, &s.AvailableSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
