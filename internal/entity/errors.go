package entity

import "errors"

var (
	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("reservation conflicts with an approved reservation")
	ErrNotPending          = errors.New("reservation is not in pending status")
	ErrAlreadyCancelled    = errors.New("reservation is already cancelled")
	ErrCancelApproved      = errors.New("cannot cancel an approved reservation")

	// Validation errors
	ErrInvalidDateRange = errors.New("end date must be at least one day after start date")
	ErrIDNotEmpty       = errors.New("reservation id must not be set")
	ErrStatusNotEmpty   = errors.New("reservation status must not be set")
	ErrInvalidStatus    = errors.New("invalid reservation status")

	// General errors
	ErrDatabaseError = errors.New("database error")
)
