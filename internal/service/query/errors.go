package query

import "errors"

var (
	ErrCourtNotFound       = errors.New("court not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotRecurring        = errors.New("reservation is not a recurring series")
)
