package domain

import "errors"

// Stable error kinds surfaced by the booking engine. Callers match them
// with errors.Is; the HTTP adapter maps them to status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidFlight    = errors.New("flight is not bookable")
	ErrSeatTaken        = errors.New("seat is already taken")
	ErrFlightFull       = errors.New("flight is full")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
	ErrForbidden        = errors.New("operation is forbidden for passenger")
	ErrBusy             = errors.New("booking is busy, retry later")
)
