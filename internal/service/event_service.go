package service

import (
	"context"
	"fmt"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/dto"
	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/internal/repository"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultMaxEventSeats caps the capacity of a single event
const DefaultMaxEventSeats = 100_000

// EventService defines the interface for event business logic
type EventService interface {
	// CreateEvent validates and stores a new event
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error)

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, id string) (*domain.Event, error)

	// ListEvents returns all events in creation order
	ListEvents(ctx context.Context) ([]*domain.Event, error)
}

// EventServiceConfig contains configuration for event service
type EventServiceConfig struct {
	MaxEventSeats int
}

// eventService implements EventService
type eventService struct {
	eventRepo     repository.EventRepository
	maxEventSeats int
	now           func() time.Time
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, cfg *EventServiceConfig) EventService {
	maxSeats := DefaultMaxEventSeats
	if cfg != nil && cfg.MaxEventSeats > 0 {
		maxSeats = cfg.MaxEventSeats
	}
	return &eventService{
		eventRepo:     eventRepo,
		maxEventSeats: maxSeats,
		now:           time.Now,
	}
}

// CreateEvent validates and stores a new event
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	if req == nil {
		span.SetStatus(codes.Error, "nil request")
		return nil, domain.ErrInvalidEventName
	}
	span.SetAttributes(attribute.Int("total_seats", req.TotalSeats))

	if req.TotalSeats > s.maxEventSeats {
		span.SetStatus(codes.Error, "event too large")
		return nil, fmt.Errorf("%w: %d > %d", domain.ErrEventTooLarge, req.TotalSeats, s.maxEventSeats)
	}

	event, err := domain.NewEvent(req.Name, req.StartsAt, req.Venue, req.TotalSeats, s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	metrics.RecordEventCreated()
	span.SetAttributes(attribute.String("event_id", event.ID))
	span.SetStatus(codes.Ok, "")
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "invalid event id")
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		span.SetStatus(codes.Error, "event not found")
		return nil, domain.ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// ListEvents returns all events in creation order
func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}
