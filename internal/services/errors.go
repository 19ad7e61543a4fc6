package services

import "errors"

// Error kinds produced by the users resource. Handlers map them to HTTP
// status codes with errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)
