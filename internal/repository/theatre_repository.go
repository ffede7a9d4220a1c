package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// TheatreRepo manages persistence for theatres and their screens.
type TheatreRepo struct {
	db *sql.DB
}

// NewTheatreRepo constructs a TheatreRepo with the given DB handle.
func NewTheatreRepo(db *sql.DB) *TheatreRepo { return &TheatreRepo{db: db} }

// Create inserts a theatre owned by ownerID.  The raw error is returned so
// the handler can map a duplicate name (error 1062) to a 409.
func (r *TheatreRepo) Create(ctx context.Context, t *model.Theatre) error {
	const q = `INSERT INTO theatres (owner_id, theatre_name, city, state) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.OwnerID, t.Name, t.City, t.State)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID loads a theatre by primary key.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (*model.Theatre, error) {
	const q = `SELECT id, owner_id, theatre_name, city, state, created_at FROM theatres WHERE id = ?`
	var t model.Theatre
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.OwnerID, &t.Name, &t.City, &t.State, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTheatreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ScreenRepo manages persistence for screens.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

// Create inserts a screen.  The unique key on (theatre_id, screen_number)
// keeps screen numbers distinct within a theatre.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const q = `INSERT INTO screens (theatre_id, screen_number, total_rows, total_columns) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.TheatreID, s.ScreenNumber, s.TotalRows, s.TotalColumns)
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

// GetScreen loads a screen by primary key; the reservation engine uses the
// grid extents to bounds-check requested seat coordinates.
func (r *ScreenRepo) GetScreen(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, theatre_id, screen_number, total_rows, total_columns FROM screens WHERE id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.TheatreID, &s.ScreenNumber, &s.TotalRows, &s.TotalColumns)
	if err == sql.ErrNoRows {
		return nil, ErrScreenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
