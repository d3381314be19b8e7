package service

import (
	"context"
	"fmt"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/repository"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AvailabilityService defines read-only queries over an event's seats.
// Every method reads one consistent snapshot of the occupied seats.
type AvailabilityService interface {
	// OccupiedCount returns the number of booked seats
	OccupiedCount(ctx context.Context, eventID string) (int, error)

	// AvailableCount returns TotalSeats minus the booked seats
	AvailableCount(ctx context.Context, eventID string) (int, error)

	// AvailableSeatsPage skips offset free seats in ascending order and
	// returns at most limit of the following ones
	AvailableSeatsPage(ctx context.Context, eventID string, offset, limit int) ([]int, error)

	// AvailableSeatRanges returns maximal inclusive runs of free seats, ascending
	AvailableSeatRanges(ctx context.Context, eventID string) ([]domain.SeatRange, error)

	// Query returns counts plus the detail selected by mode. In list mode a
	// zero limit means every remaining seat.
	Query(ctx context.Context, eventID string, mode domain.AvailabilityMode, offset, limit int) (*domain.SeatAvailability, error)
}

// availabilityService implements AvailabilityService
type availabilityService struct {
	eventRepo       repository.EventRepository
	reservationRepo repository.ReservationRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(eventRepo repository.EventRepository, reservationRepo repository.ReservationRepository) AvailabilityService {
	return &availabilityService{
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
	}
}

func (s *availabilityService) event(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// OccupiedCount returns the number of booked seats
func (s *availabilityService) OccupiedCount(ctx context.Context, eventID string) (int, error) {
	a, err := s.Query(ctx, eventID, domain.AvailabilityModeCount, 0, 0)
	if err != nil {
		return 0, err
	}
	return a.OccupiedCount, nil
}

// AvailableCount returns TotalSeats minus the booked seats
func (s *availabilityService) AvailableCount(ctx context.Context, eventID string) (int, error) {
	a, err := s.Query(ctx, eventID, domain.AvailabilityModeCount, 0, 0)
	if err != nil {
		return 0, err
	}
	return a.AvailableCount, nil
}

// AvailableSeatsPage returns up to limit free seats after skipping offset free seats
func (s *availabilityService) AvailableSeatsPage(ctx context.Context, eventID string, offset, limit int) ([]int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.availability.page")
	defer span.End()
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("offset", offset),
		attribute.Int("limit", limit),
	)

	if offset < 0 || limit < 0 {
		span.SetStatus(codes.Error, "invalid pagination")
		return nil, domain.ErrInvalidPagination
	}
	event, err := s.event(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var seats []int
	err = s.reservationRepo.ViewOccupied(ctx, eventID, func(v repository.SeatView) {
		seats = availablePage(v, event.TotalSeats, offset, limit)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read occupied seats: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return seats, nil
}

// AvailableSeatRanges returns maximal inclusive runs of free seats
func (s *availabilityService) AvailableSeatRanges(ctx context.Context, eventID string) ([]domain.SeatRange, error) {
	a, err := s.Query(ctx, eventID, domain.AvailabilityModeRange, 0, 0)
	if err != nil {
		return nil, err
	}
	return a.AvailableRanges, nil
}

// Query returns counts plus the detail selected by mode
func (s *availabilityService) Query(ctx context.Context, eventID string, mode domain.AvailabilityMode, offset, limit int) (*domain.SeatAvailability, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.availability.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("mode", string(mode)),
	)

	switch mode {
	case domain.AvailabilityModeCount, domain.AvailabilityModeList, domain.AvailabilityModeRange:
	default:
		span.SetStatus(codes.Error, "invalid mode")
		return nil, domain.ErrInvalidAvailabilityMode
	}
	if offset < 0 || limit < 0 {
		span.SetStatus(codes.Error, "invalid pagination")
		return nil, domain.ErrInvalidPagination
	}

	event, err := s.event(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &domain.SeatAvailability{
		EventID:  event.ID,
		Mode:     mode,
		Capacity: event.TotalSeats,
	}

	err = s.reservationRepo.ViewOccupied(ctx, event.ID, func(v repository.SeatView) {
		result.OccupiedCount = v.Count()
		switch mode {
		case domain.AvailabilityModeList:
			pageLimit := limit
			if pageLimit == 0 {
				pageLimit = event.TotalSeats
			}
			result.AvailableSeats = availablePage(v, event.TotalSeats, offset, pageLimit)
			result.BookedSeats = bookedSeats(v, event.TotalSeats)
		case domain.AvailabilityModeRange:
			result.AvailableRanges = availableRanges(v, event.TotalSeats)
		}
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read occupied seats: %w", err)
	}
	result.AvailableCount = event.TotalSeats - result.OccupiedCount

	span.SetAttributes(
		attribute.Int("occupied", result.OccupiedCount),
		attribute.Int("available", result.AvailableCount),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func availablePage(v repository.SeatView, totalSeats, offset, limit int) []int {
	seats := make([]int, 0, min(limit, totalSeats))
	skipped := 0
	for seat := 1; seat <= totalSeats && len(seats) < limit; seat++ {
		if v.Occupied(seat) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		seats = append(seats, seat)
	}
	return seats
}

func bookedSeats(v repository.SeatView, totalSeats int) []int {
	seats := make([]int, 0, v.Count())
	for seat := 1; seat <= totalSeats && len(seats) < v.Count(); seat++ {
		if v.Occupied(seat) {
			seats = append(seats, seat)
		}
	}
	return seats
}

func availableRanges(v repository.SeatView, totalSeats int) []domain.SeatRange {
	ranges := []domain.SeatRange{}
	start := 0
	for seat := 1; seat <= totalSeats; seat++ {
		free := !v.Occupied(seat)
		switch {
		case free && start == 0:
			start = seat
		case !free && start != 0:
			ranges = append(ranges, domain.SeatRange{Start: start, End: seat - 1})
			start = 0
		}
	}
	if start != 0 {
		ranges = append(ranges, domain.SeatRange{Start: start, End: totalSeats})
	}
	return ranges
}
