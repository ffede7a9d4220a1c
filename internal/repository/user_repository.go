package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

// UserRepo covers the users table: account rows for auth and the points
// column that backs the loyalty ledger.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// casAttempts bounds the compare-and-swap retry loop in ApplyDelta.
const casAttempts = 3

// Create inserts a user and returns its ID.  Points start at zero.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, points) VALUES (?,?,?,0)",
		email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,points,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,points,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Balance returns the user's current points balance.
func (r *UserRepo) Balance(ctx context.Context, userID uint64) (int64, error) {
	var points int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id=? LIMIT 1", userID).Scan(&points)
	return points, err
}

// ApplyDelta applies one booking's points movement (debit the redeemed
// points, credit the award) as a single balance write.  The new balance is
// computed with model.NextPointsBalance and written with a compare-and-swap
// on the previously read value, so two bookings racing on the same user
// cannot lose an update; the loser re-reads and retries up to casAttempts
// times before surfacing ErrBalanceContention.
func (r *UserRepo) ApplyDelta(ctx context.Context, userID uint64, redeem, award int64) (int64, error) {
	for i := 0; i < casAttempts; i++ {
		current, err := r.Balance(ctx, userID)
		if err != nil {
			return 0, err
		}
		next := model.NextPointsBalance(current, redeem, award)
		if next == current {
			// MySQL reports zero affected rows when the value does not
			// change, which would read as a lost race below.
			return next, nil
		}
		res, err := r.DB.ExecContext(ctx,
			"UPDATE users SET points=? WHERE id=? AND points=?",
			next, userID, current)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return next, nil
		}
		// Lost the race: another writer changed points between the read
		// and the update.  Re-read and retry.
	}
	return 0, ErrBalanceContention
}
