package handler

import (
	"net/http"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/dto"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Create handles POST /bookings.
// All requested seats are reserved together or the request fails with 409.
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		handleBindError(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("event_id", req.EventID),
		attribute.Int("seat_count", len(req.Seats)),
	)

	booking, err := h.bookingService.CreateBooking(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, response.Success(dto.FromBooking(booking)))
}

// GetByID handles GET /bookings/:id
func (h *BookingHandler) GetByID(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", id))
	if _, err := uuid.Parse(id); err != nil {
		span.SetStatus(codes.Error, "invalid booking id")
		handleError(c, domain.ErrInvalidBookingID)
		return
	}

	booking, err := h.bookingService.GetBooking(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(dto.FromBooking(booking)))
}
