package domain

import "time"

// BookingEventType represents the type of a booking event
type BookingEventType string

const (
	BookingEventCreated BookingEventType = "booking.created"
)

// BookingEvent is the message published when a booking changes
type BookingEvent struct {
	ID        string           `json:"id"`
	Type      BookingEventType `json:"type"`
	BookingID string           `json:"booking_id"`
	EventID   string           `json:"event_id"`
	Seats     []int            `json:"seats"`
	Status    BookingStatus    `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBookingEvent builds a BookingEvent for the given booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, id string) *BookingEvent {
	return &BookingEvent{
		ID:        id,
		Type:      eventType,
		BookingID: booking.ID,
		EventID:   booking.EventID,
		Seats:     append([]int(nil), booking.Seats...),
		Status:    booking.Status,
		Timestamp: booking.UpdatedAt,
	}
}

// Key returns the partition key; messages for one event stay ordered
func (e *BookingEvent) Key() string {
	return e.EventID
}
