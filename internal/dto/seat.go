package dto

import "github.com/enigmAsad/ticketing-service/internal/domain"

// SeatAvailabilityQuery holds the query string of GET /events/:id/seats.
// A zero limit returns every remaining seat.
type SeatAvailabilityQuery struct {
	Detail string `form:"detail"`
	Offset int    `form:"offset" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0"`
}

// SeatAvailabilityResponse represents seat availability in API responses.
// Nil lists are omitted; empty lists are kept.
type SeatAvailabilityResponse struct {
	EventID         string             `json:"event_id"`
	Capacity        int                `json:"capacity"`
	AvailableCount  int                `json:"available_count"`
	BookedCount     int                `json:"booked_count"`
	AvailableSeats  []int              `json:"available_seats,omitzero"`
	BookedSeats     []int              `json:"booked_seats,omitzero"`
	AvailableRanges []domain.SeatRange `json:"available_ranges,omitzero"`
}

// FromSeatAvailability converts an availability snapshot.
// Seat lists are always present (possibly empty) in list mode and ranges in range mode.
func FromSeatAvailability(a *domain.SeatAvailability) *SeatAvailabilityResponse {
	resp := &SeatAvailabilityResponse{
		EventID:        a.EventID,
		Capacity:       a.Capacity,
		AvailableCount: a.AvailableCount,
		BookedCount:    a.OccupiedCount,
	}
	switch a.Mode {
	case domain.AvailabilityModeList:
		resp.AvailableSeats = nonNil(a.AvailableSeats)
		resp.BookedSeats = nonNil(a.BookedSeats)
	case domain.AvailabilityModeRange:
		resp.AvailableRanges = a.AvailableRanges
		if resp.AvailableRanges == nil {
			resp.AvailableRanges = []domain.SeatRange{}
		}
	}
	return resp
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
