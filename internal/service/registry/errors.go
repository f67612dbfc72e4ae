package registry

import "errors"

var (
	ErrCourtExists   = errors.New("court already exists")
	ErrCourtNotFound = errors.New("court not found")
	ErrInvalidCourt  = errors.New("invalid court")
)
