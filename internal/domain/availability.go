package domain

import (
	"encoding/json"
	"strings"
)

// AvailabilityMode selects how much detail a seat availability query returns
type AvailabilityMode string

const (
	AvailabilityModeCount AvailabilityMode = "count"
	AvailabilityModeList  AvailabilityMode = "list"
	AvailabilityModeRange AvailabilityMode = "range"
)

// ParseAvailabilityMode parses a mode name; an empty string means count
func ParseAvailabilityMode(s string) (AvailabilityMode, error) {
	switch mode := AvailabilityMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return AvailabilityModeCount, nil
	case AvailabilityModeCount, AvailabilityModeList, AvailabilityModeRange:
		return mode, nil
	}
	return "", ErrInvalidAvailabilityMode
}

// SeatRange is an inclusive run of seat numbers, encoded as [start, end]
type SeatRange struct {
	Start int
	End   int
}

func (r SeatRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

func (r *SeatRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// Len returns the number of seats in the range
func (r SeatRange) Len() int {
	return r.End - r.Start + 1
}

// SeatAvailability is the result of an availability query.
// All fields are derived from a single snapshot of the event's occupied seats.
type SeatAvailability struct {
	EventID         string
	Mode            AvailabilityMode
	Capacity        int
	OccupiedCount   int
	AvailableCount  int
	AvailableSeats  []int
	BookedSeats     []int
	AvailableRanges []SeatRange
}
