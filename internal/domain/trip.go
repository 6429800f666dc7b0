// Package domain contains the core data types for the trip planner.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (itinerary, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: destinations and itinerary items belong to
// a trip, and a trip belongs to exactly one user.
// StartDate and EndDate are calendar dates at midnight UTC.
type Trip struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Description string
	HomeCity    string
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTrip is the input for trip creation. Destinations are in travel order;
// their Order fields are assigned by index during creation.
type NewTrip struct {
	Title        string
	Description  string
	HomeCity     string
	StartDate    time.Time
	EndDate      time.Time
	Destinations []Destination
}

// TripPatch carries the trip-level fields a user may edit after creation.
// Nil fields are left unchanged. A non-nil Destinations replaces the whole list.
type TripPatch struct {
	Title        *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	Destinations *[]Destination
}

// TripDetail is a trip together with its destinations (annotated with their
// computed stay windows) and its itinerary, both sorted by order.
type TripDetail struct {
	Trip
	Destinations []DestinationWithDates
	Items        []ItineraryItem
}
