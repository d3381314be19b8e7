package handler

import (
	"net/http"

	"github.com/enigmAsad/ticketing-service/internal/domain"
	"github.com/enigmAsad/ticketing-service/internal/dto"
	"github.com/enigmAsad/ticketing-service/internal/service"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService        service.EventService
	availabilityService service.AvailabilityService
	bookingService      service.BookingService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(
	eventService service.EventService,
	availabilityService service.AvailabilityService,
	bookingService service.BookingService,
) *EventHandler {
	return &EventHandler{
		eventService:        eventService,
		availabilityService: availabilityService,
		bookingService:      bookingService,
	}
}

// Create handles POST /events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.FromEvent(event)))
}

// List handles GET /events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromEvents(events)))
}

// GetByID handles GET /events/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromEvent(event)))
}

// GetSeats handles GET /events/:id/seats?detail=count|list|range&offset=&limit=
func (h *EventHandler) GetSeats(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var query dto.SeatAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handleBindError(c, err)
		return
	}

	mode, err := domain.ParseAvailabilityMode(query.Detail)
	if err != nil {
		handleError(c, err)
		return
	}

	availability, err := h.availabilityService.Query(c.Request.Context(), id, mode, query.Offset, query.Limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromSeatAvailability(availability)))
}

// ListBookings handles GET /events/:id/bookings
func (h *EventHandler) ListBookings(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListEventBookings(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromBookings(bookings)))
}

// eventIDParam reads the :id path parameter, answering 400 when it is not a UUID
func eventIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		handleError(c, domain.ErrInvalidEventID)
		return "", false
	}
	return id, true
}
