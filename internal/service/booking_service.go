package service

import (
	"context"
	"errors"
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

// BookingService defines the interface for booking business logic
type BookingService interface {
	// CreateBooking validates the seats against the event and reserves them atomically
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error)

	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)

	// ListEventBookings returns an event's bookings in creation order
	ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error)
}

// bookingService implements BookingService
type bookingService struct {
	eventRepo       repository.EventRepository
	bookingRepo     repository.BookingRepository
	reservationRepo repository.ReservationRepository
	eventPublisher  EventPublisher
}

// NewBookingService creates a new booking service
func NewBookingService(
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
	reservationRepo repository.ReservationRepository,
	eventPublisher EventPublisher,
) BookingService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		eventRepo:       eventRepo,
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		eventPublisher:  eventPublisher,
	}
}

// CreateBooking validates the seats against the event and reserves them atomically
func (s *bookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	start := time.Now()
	if req == nil || req.EventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		metrics.RecordReservation(metrics.OutcomeInvalid, 0, time.Since(start))
		return nil, domain.ErrInvalidEventID
	}
	span.SetAttributes(
		attribute.String("event_id", req.EventID),
		attribute.Int("seat_count", len(req.Seats)),
	)

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordReservation(metrics.OutcomeError, len(req.Seats), time.Since(start))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		span.SetStatus(codes.Error, "event not found")
		metrics.RecordReservation(metrics.OutcomeNotFound, len(req.Seats), time.Since(start))
		return nil, domain.ErrEventNotFound
	}

	if err := ValidateSeatNumbers(req.Seats, event.TotalSeats); err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordReservation(metrics.OutcomeInvalid, len(req.Seats), time.Since(start))
		return nil, err
	}

	booking, err := s.reservationRepo.Reserve(ctx, event.ID, req.Seats)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordReservation(reservationOutcome(err), len(req.Seats), time.Since(start))
		if domain.IsConflictError(err) || domain.IsValidationError(err) {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reserve seats: %w", err)
	}
	metrics.RecordReservation(metrics.OutcomeSuccess, len(booking.Seats), time.Since(start))

	// Delivery is asynchronous; the booking stands whatever happens to the event.
	if err := s.eventPublisher.PublishBookingCreated(context.WithoutCancel(ctx), booking); err != nil {
		span.AddEvent("booking event not published")
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return booking, nil
}

func reservationOutcome(err error) string {
	switch {
	case domain.IsConflictError(err):
		return metrics.OutcomeConflict
	case domain.IsValidationError(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrEventNotFound):
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()
	span.SetAttributes(attribute.String("booking_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "invalid booking id")
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		span.SetStatus(codes.Error, "booking not found")
		return nil, domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListEventBookings returns an event's bookings in creation order
func (s *bookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_by_event")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		span.SetStatus(codes.Error, "event not found")
		return nil, domain.ErrEventNotFound
	}

	bookings, err := s.bookingRepo.ListByEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}
