package blocks

import "errors"

var (
	ErrValidation       = errors.New("invalid block event")
	ErrNotFound         = errors.New("block event not found")
	ErrCourtNotFound    = errors.New("court not found")
	ErrPaidReservations = errors.New("block would override paid reservations")
)
