package model

import "time"

// PointsCeiling bounds a user's loyalty balance.  The points column is a
// SMALLINT; balances are clamped here rather than rejected when an award
// would overflow.
const PointsCeiling = 32767

// User mirrors the `users` table.  Points is the loyalty balance in whole
// currency-equivalent units, redeemable 1:1 against a booking bill.  The
// balance is written only by the reservation engine's redemption/award step.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (CUSTOMER or OWNER)
	Points       int64     // users.points
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// NextPointsBalance computes the balance written after a booking: the
// redeemed points leave, the awarded points arrive, and the result is
// clamped into [0, PointsCeiling].  Both the SQL ledger and test fakes use
// this so the arithmetic cannot drift between them.
func NextPointsBalance(current, redeem, award int64) int64 {
	next := current - redeem + award
	if next < 0 {
		next = 0
	}
	if next > PointsCeiling {
		next = PointsCeiling
	}
	return next
}
