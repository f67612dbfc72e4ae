package booking

import "errors"

var (
	ErrValidation          = errors.New("invalid booking request")
	ErrGranularity         = errors.New("start time not aligned to court granularity")
	ErrSlotUnavailable     = errors.New("slot unavailable")
	ErrEventConflict       = errors.New("court blocked by event")
	ErrNotFound            = errors.New("reservation not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrConcurrencyConflict = errors.New("another request took the slot first")
)
