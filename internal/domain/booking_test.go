package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBookingStatus_IsValid(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingStatusPending, true},
		{BookingStatusConfirmed, true},
		{BookingStatusCancelled, true},
		{BookingStatus("confirmed"), false},
		{BookingStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestBookingStatus_IsActive(t *testing.T) {
	if !BookingStatusConfirmed.IsActive() || !BookingStatusPending.IsActive() {
		t.Error("Expected pending and confirmed to be active")
	}
	if BookingStatusCancelled.IsActive() {
		t.Error("Expected cancelled to be inactive")
	}
}

func TestNewBooking(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		eventID string
		seats   []int
		status  BookingStatus
		wantErr error
	}{
		{name: "valid booking", eventID: "event-1", seats: []int{1, 2}, status: BookingStatusConfirmed},
		{name: "missing event", eventID: "", seats: []int{1}, status: BookingStatusConfirmed, wantErr: ErrInvalidEventID},
		{name: "empty seats", eventID: "event-1", seats: []int{}, status: BookingStatusConfirmed, wantErr: ErrEmptySeats},
		{name: "nil seats", eventID: "event-1", seats: nil, status: BookingStatusConfirmed, wantErr: ErrEmptySeats},
		{name: "zero seat", eventID: "event-1", seats: []int{0}, status: BookingStatusConfirmed, wantErr: ErrInvalidSeatNumber},
		{name: "negative seat", eventID: "event-1", seats: []int{3, -1}, status: BookingStatusConfirmed, wantErr: ErrInvalidSeatNumber},
		{name: "duplicate seat", eventID: "event-1", seats: []int{4, 4}, status: BookingStatusConfirmed, wantErr: ErrDuplicateSeat},
		{name: "bad status", eventID: "event-1", seats: []int{1}, status: BookingStatus("HELD"), wantErr: ErrInvalidBookingStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, err := NewBooking(tt.eventID, tt.seats, tt.status, now)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if booking.ID == "" {
				t.Error("Expected ID to be assigned")
			}
			if booking.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, booking.Status)
			}
		})
	}
}

func TestNewBooking_CopiesSeats(t *testing.T) {
	seats := []int{1, 2, 3}
	booking, err := NewBooking("event-1", seats, BookingStatusConfirmed, time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seats[0] = 99
	if booking.Seats[0] != 1 {
		t.Error("Booking seats should not alias the caller's slice")
	}
}

func TestErrorClassifiers(t *testing.T) {
	conflict := fmt.Errorf("%w: [3]", ErrSeatConflict)
	if !IsConflictError(conflict) {
		t.Error("Expected wrapped seat conflict to classify as conflict")
	}
	if IsValidationError(conflict) || IsNotFoundError(conflict) {
		t.Error("Seat conflict must not classify as validation or not found")
	}

	if !IsNotFoundError(fmt.Errorf("lookup: %w", ErrEventNotFound)) {
		t.Error("Expected wrapped event not found to classify as not found")
	}
	if !IsNotFoundError(ErrBookingNotFound) {
		t.Error("Expected booking not found to classify as not found")
	}

	if IsValidationError(errors.New("boom")) || IsNotFoundError(errors.New("boom")) || IsConflictError(errors.New("boom")) {
		t.Error("Unknown errors must not be classified")
	}
}

func TestParseAvailabilityMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AvailabilityMode
		wantErr bool
	}{
		{"", AvailabilityModeCount, false},
		{"count", AvailabilityModeCount, false},
		{"LIST", AvailabilityModeList, false},
		{" range ", AvailabilityModeRange, false},
		{"ranges", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAvailabilityMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAvailabilityMode) {
				t.Errorf("ParseAvailabilityMode(%q) error = %v, want ErrInvalidAvailabilityMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAvailabilityMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestBookingEvent_Key(t *testing.T) {
	booking, _ := NewBooking("event-9", []int{7}, BookingStatusConfirmed, time.Now())
	msg := NewBookingEvent(BookingEventCreated, booking, "msg-1")

	if msg.Key() != "event-9" {
		t.Errorf("Expected key event-9, got %s", msg.Key())
	}
	if msg.BookingID != booking.ID || msg.Status != BookingStatusConfirmed {
		t.Error("Expected message to mirror the booking")
	}
}

func TestSeatRange_JSON(t *testing.T) {
	ranges := []SeatRange{{Start: 1, End: 1}, {Start: 5, End: 6}, {Start: 8, End: 10}}

	data, err := json.Marshal(ranges)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `[[1,1],[5,6],[8,10]]` {
		t.Errorf("Marshal() = %s", data)
	}

	var back []SeatRange
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(back) != 3 || back[2] != (SeatRange{Start: 8, End: 10}) || back[2].Len() != 3 {
		t.Errorf("Unmarshal() = %v", back)
	}
}
