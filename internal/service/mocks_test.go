package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/repository"
	"github.com/stretchr/testify/require"
)

// MockEventRepository is a function-field mock of EventRepository
type MockEventRepository struct {
	CreateFunc  func(ctx context.Context, event *domain.Event) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc    func(ctx context.Context) ([]*domain.Event, error)
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Event{}, nil
}

func (m *MockEventRepository) Count(ctx context.Context) int { return 0 }

// MockReservationRepository is a function-field mock of ReservationRepository
type MockReservationRepository struct {
	ReserveFunc      func(ctx context.Context, eventID string, seats []int) (*domain.Booking, error)
	ViewOccupiedFunc func(ctx context.Context, eventID string, fn func(repository.SeatView)) error
}

func (m *MockReservationRepository) Reserve(ctx context.Context, eventID string, seats []int) (*domain.Booking, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, eventID, seats)
	}
	return domain.NewBooking(eventID, seats, domain.BookingStatusConfirmed, time.Now())
}

func (m *MockReservationRepository) ViewOccupied(ctx context.Context, eventID string, fn func(repository.SeatView)) error {
	if m.ViewOccupiedFunc != nil {
		return m.ViewOccupiedFunc(ctx, eventID, fn)
	}
	return nil
}

// MockEventPublisher records published bookings
type MockEventPublisher struct {
	mu      sync.Mutex
	created []*domain.Booking
	err     error
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, booking)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) Created() []*domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Booking(nil), m.created...)
}

// fixture wires the services over real in-memory stores
type fixture struct {
	events       *repository.MemoryEventRepository
	bookings     *repository.MemoryBookingRepository
	publisher    *MockEventPublisher
	eventSvc     EventService
	bookingSvc   BookingService
	availability AvailabilityService
}

func newFixture() *fixture {
	events := repository.NewMemoryEventRepository()
	bookings := repository.NewMemoryBookingRepository()
	publisher := &MockEventPublisher{}
	return &fixture{
		events:       events,
		bookings:     bookings,
		publisher:    publisher,
		eventSvc:     NewEventService(events, nil),
		bookingSvc:   NewBookingService(events, bookings, bookings, publisher),
		availability: NewAvailabilityService(events, bookings),
	}
}

func (f *fixture) createEvent(t *testing.T, totalSeats int) *domain.Event {
	t.Helper()
	now := time.Now()
	event, err := domain.NewEvent("Test Event", now.Add(48*time.Hour), "Test Venue", totalSeats, now)
	require.NoError(t, err)
	require.NoError(t, f.events.Create(context.Background(), event))
	return event
}
