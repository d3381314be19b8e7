package repository

import (
	"context"

	"github.com/enigmAsad/ticketing-service/internal/domain"
)

// EventRepository defines the interface for event storage
type EventRepository interface {
	// Create stores a new event
	Create(ctx context.Context, event *domain.Event) error

	// GetByID returns the event with the given ID, or nil when absent
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// List returns all events in insertion order
	List(ctx context.Context) ([]*domain.Event, error)

	// Count returns the number of stored events
	Count(ctx context.Context) int
}

// BookingRepository defines the read side of booking storage
type BookingRepository interface {
	// GetByID returns the booking with the given ID, or nil when absent
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByEvent returns an event's bookings in creation order.
	// Unknown events yield an empty list.
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Booking, error)

	// Count returns the number of stored bookings across all events
	Count(ctx context.Context) int
}

// SeatView is a read-only view of one event's occupied seats.
// It is only valid inside the callback passed to ViewOccupied.
type SeatView interface {
	Occupied(seat int) bool
	Count() int
}

// ReservationRepository atomically claims seats for an event
type ReservationRepository interface {
	// Reserve books all seats or none. Overlap with an active booking
	// fails with domain.ErrSeatConflict.
	Reserve(ctx context.Context, eventID string, seats []int) (*domain.Booking, error)

	// ViewOccupied runs fn against a consistent snapshot of the event's
	// occupied seats. No reservation for the event commits while fn runs.
	ViewOccupied(ctx context.Context, eventID string, fn func(SeatView)) error
}
