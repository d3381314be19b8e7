package dto

import (
	"time"

	"github.com/enigmAsad/ticketing-service/internal/domain"
)

// CreateBookingRequest represents the request to reserve seats
type CreateBookingRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
	Seats   []int  `json:"seats" binding:"required,min=1"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Seats     []int  `json:"seats"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// BookingListResponse represents a list of bookings
type BookingListResponse struct {
	Items []*BookingResponse `json:"items"`
	Total int                `json:"total"`
}

// FromBooking converts a domain booking to its API representation
func FromBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID,
		EventID:   b.EventID,
		Seats:     b.Seats,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// FromBookings converts a list of domain bookings
func FromBookings(bookings []*domain.Booking) *BookingListResponse {
	items := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = FromBooking(b)
	}
	return &BookingListResponse{Items: items, Total: len(items)}
}
