package booking

import (
	"errors"
	"fmt"
)

var (
	ErrBarberNotFound  = errors.New("barber not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrNotFoundOrAlreadyCanceled deliberately covers not-found,
	// already-canceled, and not-owned so a caller cannot probe for other
	// users' appointments.
	ErrNotFoundOrAlreadyCanceled = errors.New("appointment not found or already canceled")
)

// ShiftValidationError rejects a shift set on replace, naming the weekday
// that failed.
type ShiftValidationError struct {
	Weekday int
	Reason  string
}

func (e *ShiftValidationError) Error() string {
	return fmt.Sprintf("invalid shifts for weekday %d: %s", e.Weekday, e.Reason)
}
