package domain

import (
	"time"

	"github.com/google/uuid"
)

// Destination is a named stop in a trip.
// DaysToStay is nil for the terminal destination: the last stop before the
// return leg home, which gets no generated lodging.
type Destination struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	City       string
	DaysToStay *int
	Order      int
}

// IsTerminal reports whether the destination carries no stay length.
func (d Destination) IsTerminal() bool {
	return d.DaysToStay == nil
}

// DestinationWithDates is a Destination annotated with its stay window.
// It is computed on demand and never persisted.
type DestinationWithDates struct {
	Destination
	StartDate time.Time
	EndDate   time.Time
}

// Days returns a pointer to n. Handy for building destinations in code and tests.
func Days(n int) *int {
	return &n
}
