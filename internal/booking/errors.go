package booking

import "fmt"

// ValidationError covers requests the caller got wrong: empty or
// out-of-bounds seat lists, bad parking shapes, over-redemption. The points
// checks run after the seat commit, so a ValidationError may come back
// alongside a partial receipt.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
