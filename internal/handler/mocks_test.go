package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/dto"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockEventService is a function-field mock of EventService
type MockEventService struct {
	CreateEventFunc func(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error)
	GetEventFunc    func(ctx context.Context, id string) (*domain.Event, error)
	ListEventsFunc  func(ctx context.Context) ([]*domain.Event, error)
}

func (m *MockEventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	return m.CreateEventFunc(ctx, req)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return m.GetEventFunc(ctx, id)
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return m.ListEventsFunc(ctx)
}

// MockBookingService is a function-field mock of BookingService
type MockBookingService struct {
	CreateBookingFunc     func(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error)
	GetBookingFunc        func(ctx context.Context, id string) (*domain.Booking, error)
	ListEventBookingsFunc func(ctx context.Context, eventID string) ([]*domain.Booking, error)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
	return m.CreateBookingFunc(ctx, req)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return m.GetBookingFunc(ctx, id)
}

func (m *MockBookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	return m.ListEventBookingsFunc(ctx, eventID)
}

// MockAvailabilityService is a function-field mock of AvailabilityService; only Query is routed
type MockAvailabilityService struct {
	QueryFunc func(ctx context.Context, eventID string, mode domain.AvailabilityMode, offset, limit int) (*domain.SeatAvailability, error)
}

func (m *MockAvailabilityService) OccupiedCount(ctx context.Context, eventID string) (int, error) {
	a, err := m.Query(ctx, eventID, domain.AvailabilityModeCount, 0, 0)
	if err != nil {
		return 0, err
	}
	return a.OccupiedCount, nil
}

func (m *MockAvailabilityService) AvailableCount(ctx context.Context, eventID string) (int, error) {
	a, err := m.Query(ctx, eventID, domain.AvailabilityModeCount, 0, 0)
	if err != nil {
		return 0, err
	}
	return a.AvailableCount, nil
}

func (m *MockAvailabilityService) AvailableSeatsPage(ctx context.Context, eventID string, offset, limit int) ([]int, error) {
	a, err := m.Query(ctx, eventID, domain.AvailabilityModeList, offset, limit)
	if err != nil {
		return nil, err
	}
	return a.AvailableSeats, nil
}

func (m *MockAvailabilityService) AvailableSeatRanges(ctx context.Context, eventID string) ([]domain.SeatRange, error) {
	a, err := m.Query(ctx, eventID, domain.AvailabilityModeRange, 0, 0)
	if err != nil {
		return nil, err
	}
	return a.AvailableRanges, nil
}

func (m *MockAvailabilityService) Query(ctx context.Context, eventID string, mode domain.AvailabilityMode, offset, limit int) (*domain.SeatAvailability, error) {
	return m.QueryFunc(ctx, eventID, mode, offset, limit)
}

// envelope mirrors response.Response with a typed payload
type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Error   *response.ErrorData `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
