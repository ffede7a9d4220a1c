package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo covers the refresh_tokens table. Only SHA-256 hashes of refresh
// tokens are stored; revocation is a timestamp, never a delete, so a stolen
// token that was already rotated leaves a trace.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a refresh token hash with its expiry.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, hash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, hash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its user. Revoked and expired
// rows fail with sql.ErrNoRows so callers treat all three cases (missing,
// revoked, expired) as the same invalid-token outcome.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, hash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		hash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash marks one token revoked; already-revoked rows are untouched.
func (r *TokenRepo) RevokeByHash(ctx context.Context, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		hash)
	return err
}

// RevokeAllForUser ends every active session of a user at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
