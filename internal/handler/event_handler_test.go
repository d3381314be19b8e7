package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEventRouter(h *EventHandler) *gin.Engine {
	router := gin.New()

	events := router.Group("/events")
	{
		events.POST("", h.Create)
		events.GET("", h.List)
		events.GET("/:id", h.GetByID)
		events.GET("/:id/seats", h.GetSeats)
		events.GET("/:id/bookings", h.ListBookings)
	}

	return router
}

func sampleEvent(id string, seats int) *domain.Event {
	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:         id,
		Name:       "Concert",
		StartsAt:   now.Add(24 * time.Hour),
		Venue:      "Arena",
		TotalSeats: seats,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestEventHandler_Create(t *testing.T) {
	eventID := uuid.NewString()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "valid event",
			body:       `{"name":"Concert","starts_at":"2030-05-02T12:00:00Z","venue":"Arena","total_seats":100}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"starts_at":"2030-05-02T12:00:00Z","venue":"Arena","total_seats":100}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero seats",
			body:       `{"name":"Concert","starts_at":"2030-05-02T12:00:00Z","venue":"Arena","total_seats":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "start time without offset",
			body:       `{"name":"Concert","starts_at":"2030-05-02T12:00:00","venue":"Arena","total_seats":10}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "start time in the past",
			body:       `{"name":"Concert","starts_at":"2000-01-01T00:00:00Z","venue":"Arena","total_seats":10}`,
			serviceErr: domain.ErrStartTimeNotFuture,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       `{"name":"Concert","starts_at":"2030-05-02T12:00:00Z","venue":"Arena","total_seats":10}`,
			serviceErr: errors.New("store unavailable"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockEventService{
				CreateEventFunc: func(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					event := sampleEvent(eventID, req.TotalSeats)
					event.Name = req.Name
					return event, nil
				},
			}
			router := setupEventRouter(NewEventHandler(svc, nil, nil))

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				env := decode[dto.EventResponse](t, w)
				assert.True(t, env.Success)
				assert.Equal(t, eventID, env.Data.ID)
				assert.Equal(t, 100, env.Data.TotalSeats)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				env := decode[any](t, w)
				assert.Equal(t, "Internal server error", env.Error.Message)
			}
		})
	}
}

func TestEventHandler_List(t *testing.T) {
	svc := &MockEventService{
		ListEventsFunc: func(ctx context.Context) ([]*domain.Event, error) {
			return []*domain.Event{sampleEvent(uuid.NewString(), 5), sampleEvent(uuid.NewString(), 6)}, nil
		},
	}
	router := setupEventRouter(NewEventHandler(svc, nil, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode[dto.EventListResponse](t, w)
	assert.Equal(t, 2, env.Data.Total)
	assert.Len(t, env.Data.Items, 2)
}

func TestEventHandler_GetByID(t *testing.T) {
	existing := uuid.NewString()
	svc := &MockEventService{
		GetEventFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			if id == existing {
				return sampleEvent(id, 10), nil
			}
			return nil, domain.ErrEventNotFound
		},
	}
	router := setupEventRouter(NewEventHandler(svc, nil, nil))

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"existing event", existing, http.StatusOK},
		{"unknown event", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+tt.id, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestEventHandler_GetSeats(t *testing.T) {
	eventID := uuid.NewString()

	var gotMode domain.AvailabilityMode
	var gotOffset, gotLimit int
	availability := &MockAvailabilityService{
		QueryFunc: func(ctx context.Context, id string, mode domain.AvailabilityMode, offset, limit int) (*domain.SeatAvailability, error) {
			if id != eventID {
				return nil, domain.ErrEventNotFound
			}
			gotMode, gotOffset, gotLimit = mode, offset, limit
			result := &domain.SeatAvailability{EventID: id, Mode: mode, Capacity: 10, OccupiedCount: 4, AvailableCount: 6}
			switch mode {
			case domain.AvailabilityModeList:
				result.AvailableSeats = []int{1, 5}
				result.BookedSeats = []int{2, 3, 4, 7}
			case domain.AvailabilityModeRange:
				result.AvailableRanges = []domain.SeatRange{{Start: 1, End: 1}, {Start: 5, End: 6}, {Start: 8, End: 10}}
			}
			return result, nil
		},
	}
	router := setupEventRouter(NewEventHandler(nil, availability, nil))

	t.Run("count by default", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/seats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.AvailabilityModeCount, gotMode)
		assert.NotContains(t, w.Body.String(), "available_seats")
		assert.NotContains(t, w.Body.String(), "available_ranges")

		env := decode[dto.SeatAvailabilityResponse](t, w)
		assert.Equal(t, 6, env.Data.AvailableCount)
		assert.Equal(t, 4, env.Data.BookedCount)
		assert.Equal(t, 10, env.Data.Capacity)
	})

	t.Run("list with paging", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/seats?detail=list&offset=0&limit=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.AvailabilityModeList, gotMode)
		assert.Equal(t, 0, gotOffset)
		assert.Equal(t, 2, gotLimit)

		env := decode[dto.SeatAvailabilityResponse](t, w)
		assert.Equal(t, []int{1, 5}, env.Data.AvailableSeats)
		assert.Equal(t, []int{2, 3, 4, 7}, env.Data.BookedSeats)
	})

	t.Run("ranges", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/seats?detail=range", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decode[dto.SeatAvailabilityResponse](t, w)
		assert.Equal(t, []domain.SeatRange{{Start: 1, End: 1}, {Start: 5, End: 6}, {Start: 8, End: 10}}, env.Data.AvailableRanges)
	})

	badRequests := []struct {
		name  string
		query string
	}{
		{"unknown detail", "?detail=everything"},
		{"negative offset", "?detail=list&offset=-1"},
		{"non-numeric limit", "?detail=list&limit=ten"},
	}
	for _, tt := range badRequests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/seats"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString()+"/seats", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventHandler_ListBookings(t *testing.T) {
	eventID := uuid.NewString()
	now := time.Now()
	bookings := &MockBookingService{
		ListEventBookingsFunc: func(ctx context.Context, id string) ([]*domain.Booking, error) {
			if id != eventID {
				return nil, domain.ErrEventNotFound
			}
			b, _ := domain.NewBooking(id, []int{1, 2}, domain.BookingStatusConfirmed, now)
			return []*domain.Booking{b}, nil
		},
	}
	router := setupEventRouter(NewEventHandler(nil, nil, bookings))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+eventID+"/bookings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[dto.BookingListResponse](t, w)
	require.Equal(t, 1, env.Data.Total)
	assert.Equal(t, []int{1, 2}, env.Data.Items[0].Seats)
	assert.Equal(t, "CONFIRMED", env.Data.Items[0].Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString()+"/bookings", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
