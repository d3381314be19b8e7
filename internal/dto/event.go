package dto

import (
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
)

// CreateEventRequest represents the request to create an event.
// starts_at must be RFC 3339 with an explicit offset.
type CreateEventRequest struct {
	Name       string    `json:"name" binding:"required,max=200"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	Venue      string    `json:"venue" binding:"required,max=200"`
	TotalSeats int       `json:"total_seats" binding:"required,gt=0"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartsAt   string `json:"starts_at"`
	Venue      string `json:"venue"`
	TotalSeats int    `json:"total_seats"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Items []*EventResponse `json:"items"`
	Total int              `json:"total"`
}

// FromEvent converts a domain event to its API representation
func FromEvent(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:         e.ID,
		Name:       e.Name,
		StartsAt:   e.StartsAt.Format(time.RFC3339),
		Venue:      e.Venue,
		TotalSeats: e.TotalSeats,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// FromEvents converts a list of domain events
func FromEvents(events []*domain.Event) *EventListResponse {
	items := make([]*EventResponse, len(events))
	for i, e := range events {
		items[i] = FromEvent(e)
	}
	return &EventListResponse{Items: items, Total: len(items)}
}
