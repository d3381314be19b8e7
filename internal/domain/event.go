package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLength is the maximum length of an event name or venue
const MaxTextLength = 200

// Event represents a ticketed occasion with a fixed seat capacity.
// Events are immutable once created.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartsAt   time.Time `json:"starts_at"`
	Venue      string    `json:"venue"`
	TotalSeats int       `json:"total_seats"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEvent validates the input and builds a new Event with a fresh ID
func NewEvent(name string, startsAt time.Time, venue string, totalSeats int, now time.Time) (*Event, error) {
	event := &Event{
		Name:       strings.TrimSpace(name),
		StartsAt:   startsAt,
		Venue:      strings.TrimSpace(venue),
		TotalSeats: totalSeats,
	}
	if err := event.Validate(now); err != nil {
		return nil, err
	}

	now = now.UTC()
	event.ID = uuid.New().String()
	event.CreatedAt = now
	event.UpdatedAt = now
	return event, nil
}

// Validate validates all event fields against the given reference time
func (e *Event) Validate(now time.Time) error {
	if err := e.ValidateName(); err != nil {
		return err
	}
	if err := e.ValidateVenue(); err != nil {
		return err
	}
	if err := e.ValidateTotalSeats(); err != nil {
		return err
	}
	return e.ValidateStartsAt(now)
}

// ValidateName validates the event name
func (e *Event) ValidateName() error {
	if e.Name == "" || utf8.RuneCountInString(e.Name) > MaxTextLength {
		return ErrInvalidEventName
	}
	return nil
}

// ValidateVenue validates the event venue
func (e *Event) ValidateVenue() error {
	if e.Venue == "" || utf8.RuneCountInString(e.Venue) > MaxTextLength {
		return ErrInvalidVenue
	}
	return nil
}

// ValidateTotalSeats validates the seat capacity
func (e *Event) ValidateTotalSeats() error {
	if e.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	return nil
}

// ValidateStartsAt validates that the event starts after now
func (e *Event) ValidateStartsAt(now time.Time) error {
	if e.StartsAt.IsZero() || !e.StartsAt.After(now) {
		return ErrStartTimeNotFuture
	}
	return nil
}

// HasSeat reports whether seat is a valid seat number for this event
func (e *Event) HasSeat(seat int) bool {
	return seat >= 1 && seat <= e.TotalSeats
}
