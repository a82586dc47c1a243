package main

import "errors"

// Error kinds surfaced by the service layer. Controllers map them to
// HTTP status codes with errors.Is; everything else is a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("permission denied")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
