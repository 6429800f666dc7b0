package domain

import "time"

// ExportRow is a single row in a trip's itinerary export.
// It is a flat, denormalized view: one row per itinerary item, with trip
// fields repeated on every row. Fields that do not apply to the item's kind
// are left at their zero value.
type ExportRow struct {
	// Trip fields, repeated for every item.
	TripID        string
	TripTitle     string
	TripStartDate string // "2006-01-02"
	TripEndDate   string // "2006-01-02"
	HomeCity      string

	// Item fields.
	Order       int
	Kind        string
	Title       string // transport route, lodging name or activity name
	Location    string // arrival city, lodging address or activity address
	StartsAt    *time.Time
	EndsAt      *time.Time
	Description string
	Cost        *float64
}
