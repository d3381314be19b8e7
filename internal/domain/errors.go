package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidEventID     = errors.New("invalid event id")
	ErrInvalidEventName   = errors.New("event name must be non-empty and at most 200 characters")
	ErrInvalidVenue       = errors.New("event venue must be non-empty and at most 200 characters")
	ErrInvalidTotalSeats  = errors.New("event total_seats must be positive")
	ErrEventTooLarge      = errors.New("event total_seats exceeds the maximum capacity")
	ErrStartTimeNotFuture = errors.New("event starts_at must be in the future")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidBookingID     = errors.New("invalid booking id")
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// Seat errors
	ErrEmptySeats        = errors.New("seats must be non-empty")
	ErrInvalidSeatNumber = errors.New("seats must be positive integers")
	ErrDuplicateSeat     = errors.New("seats must be unique")
	ErrSeatOutOfRange    = errors.New("seats must be within event capacity")
	ErrSeatConflict      = errors.New("seats already booked")

	// Availability errors
	ErrInvalidAvailabilityMode = errors.New("detail must be one of count, list, range")
	ErrInvalidPagination       = errors.New("offset and limit must be non-negative")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidEventName) ||
		errors.Is(err, ErrInvalidVenue) ||
		errors.Is(err, ErrInvalidTotalSeats) ||
		errors.Is(err, ErrEventTooLarge) ||
		errors.Is(err, ErrStartTimeNotFuture) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidBookingStatus) ||
		errors.Is(err, ErrEmptySeats) ||
		errors.Is(err, ErrInvalidSeatNumber) ||
		errors.Is(err, ErrDuplicateSeat) ||
		errors.Is(err, ErrSeatOutOfRange) ||
		errors.Is(err, ErrInvalidAvailabilityMode) ||
		errors.Is(err, ErrInvalidPagination)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatConflict)
}
