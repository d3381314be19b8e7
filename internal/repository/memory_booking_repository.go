package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// eventShard holds all booking state of a single event.
// occupied is maintained incrementally on every successful reservation.
type eventShard struct {
	mu       sync.RWMutex
	occupied map[int]struct{}
	bookings []*domain.Booking
}

func (s *eventShard) Occupied(seat int) bool {
	_, ok := s.occupied[seat]
	return ok
}

func (s *eventShard) Count() int {
	return len(s.occupied)
}

type emptySeatView struct{}

func (emptySeatView) Occupied(int) bool { return false }
func (emptySeatView) Count() int        { return 0 }

// MemoryBookingRepository implements ReservationRepository and BookingRepository
// in process memory, with one lock per event.
type MemoryBookingRepository struct {
	shards sync.Map // eventID -> *eventShard
	byID   sync.Map // bookingID -> *domain.Booking
	total  atomic.Int64
	now    func() time.Time
}

// NewMemoryBookingRepository creates a new MemoryBookingRepository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{now: time.Now}
}

func (r *MemoryBookingRepository) shard(eventID string) *eventShard {
	if s, ok := r.shards.Load(eventID); ok {
		return s.(*eventShard)
	}
	s, _ := r.shards.LoadOrStore(eventID, &eventShard{occupied: make(map[int]struct{})})
	return s.(*eventShard)
}

// Reserve atomically books seats for an event
func (r *MemoryBookingRepository) Reserve(ctx context.Context, eventID string, seats []int) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.memory.reservation.reserve")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("seat_count", len(seats)),
	)

	if eventID == "" {
		span.SetStatus(codes.Error, domain.ErrInvalidEventID.Error())
		return nil, domain.ErrInvalidEventID
	}
	if err := domain.ValidateSeatShape(seats); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s := r.shard(eventID)
	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []int
	for _, seat := range seats {
		if _, taken := s.occupied[seat]; taken {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		span.SetAttributes(attribute.IntSlice("conflicting_seats", conflicts))
		span.SetStatus(codes.Error, "seat conflict")
		return nil, fmt.Errorf("%w: %v", domain.ErrSeatConflict, conflicts)
	}

	booking, err := domain.NewBooking(eventID, seats, domain.BookingStatusConfirmed, r.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.bookings = append(s.bookings, booking)
	r.byID.Store(booking.ID, booking)
	for _, seat := range booking.Seats {
		s.occupied[seat] = struct{}{}
	}
	r.total.Add(1)

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ViewOccupied runs fn under the event's read lock
func (r *MemoryBookingRepository) ViewOccupied(ctx context.Context, eventID string, fn func(SeatView)) error {
	v, ok := r.shards.Load(eventID)
	if !ok {
		fn(emptySeatView{})
		return nil
	}

	s := v.(*eventShard)
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
	return nil
}

// GetByID retrieves a booking by its ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	v, ok := r.byID.Load(id)
	if !ok {
		return nil, nil
	}
	return v.(*domain.Booking), nil
}

// ListByEvent returns an event's bookings in creation order
func (r *MemoryBookingRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	v, ok := r.shards.Load(eventID)
	if !ok {
		return []*domain.Booking{}, nil
	}

	s := v.(*eventShard)
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]*domain.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return bookings, nil
}

// Count returns the number of bookings across all events
func (r *MemoryBookingRepository) Count(ctx context.Context) int {
	return int(r.total.Load())
}
