package service

import (
	"fmt"

	"github.com/enigmAsad/ticketing-service/internal/domain"
)

// ValidateSeatNumbers rejects seat lists that are empty, hold non-positive
// or duplicate numbers, or reference seats beyond the event's capacity.
func ValidateSeatNumbers(seats []int, totalSeats int) error {
	if err := domain.ValidateSeatShape(seats); err != nil {
		return err
	}
	var outOfRange []int
	for _, seat := range seats {
		if seat > totalSeats {
			outOfRange = append(outOfRange, seat)
		}
	}
	if len(outOfRange) > 0 {
		return fmt.Errorf("%w: %v exceeds capacity %d", domain.ErrSeatOutOfRange, outOfRange, totalSeats)
	}
	return nil
}
