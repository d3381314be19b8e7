package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status holds its seats
func (s BookingStatus) IsActive() bool {
	return s != BookingStatusCancelled
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Booking is a claim on one or more seat numbers of one event.
// Bookings are immutable once created.
type Booking struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	Seats     []int         `json:"seats"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewBooking validates the input and builds a new Booking with a fresh ID.
// The seat slice is copied.
func NewBooking(eventID string, seats []int, status BookingStatus, now time.Time) (*Booking, error) {
	if eventID == "" {
		return nil, ErrInvalidEventID
	}
	if err := ValidateSeatShape(seats); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, ErrInvalidBookingStatus
	}

	now = now.UTC()
	return &Booking{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Seats:     append([]int(nil), seats...),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateSeatShape checks that seats is non-empty and holds unique positive numbers
func ValidateSeatShape(seats []int) error {
	if len(seats) == 0 {
		return ErrEmptySeats
	}
	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if seat <= 0 {
			return ErrInvalidSeatNumber
		}
		if _, dup := seen[seat]; dup {
			return ErrDuplicateSeat
		}
		seen[seat] = struct{}{}
	}
	return nil
}
