// Package itinerary derives stay windows and the skeleton itinerary of a trip
// from its home city, ordered destinations and overall dates.
//
// Everything here is pure: no I/O and no shared state. Functions may be called
// concurrently without synchronization.
package itinerary

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

const day = 24 * time.Hour

// ComputeDestinationDates annotates each destination with its stay window.
//
// Destinations are processed in ascending Order (stable). The first one starts
// on tripStart; each ends DaysToStay days after it starts, and the next one
// starts on that same date (the overlap day used for the transfer). The span
// from the first StartDate to the last EndDate is therefore the sum of all
// stays.
//
// Every destination must carry a positive DaysToStay. Use WithDisplayStay first
// when the list ends with a terminal destination.
func ComputeDestinationDates(tripStart time.Time, dests []domain.Destination) ([]domain.DestinationWithDates, error) {
	sorted := slices.Clone(dests)
	slices.SortStableFunc(sorted, func(a, b domain.Destination) int {
		return a.Order - b.Order
	})

	cursor := midnight(tripStart)
	out := make([]domain.DestinationWithDates, 0, len(sorted))
	for _, d := range sorted {
		if d.DaysToStay == nil || *d.DaysToStay < 1 {
			return nil, fmt.Errorf("%w: destination %q needs a positive stay to be dated", domain.ErrInvalidStayLength, d.City)
		}
		end := cursor.AddDate(0, 0, *d.DaysToStay)
		out = append(out, domain.DestinationWithDates{
			Destination: d,
			StartDate:   cursor,
			EndDate:     end,
		})
		cursor = end
	}
	return out, nil
}

// WithDisplayStay returns a copy of dests in which a terminal destination is
// given a display-only stay: the days from its arrival until tripEnd, at
// least one. Non-terminal destinations are returned unchanged.
func WithDisplayStay(dests []domain.Destination, tripStart, tripEnd time.Time) []domain.Destination {
	out := slices.Clone(dests)
	slices.SortStableFunc(out, func(a, b domain.Destination) int {
		return a.Order - b.Order
	})

	cursor := midnight(tripStart)
	for i := range out {
		if out[i].DaysToStay != nil {
			cursor = cursor.AddDate(0, 0, *out[i].DaysToStay)
			continue
		}
		remaining := int(midnight(tripEnd).Sub(cursor) / day)
		out[i].DaysToStay = domain.Days(max(remaining, 1))
		cursor = cursor.AddDate(0, 0, *out[i].DaysToStay)
	}
	return out
}

// FormatDateRange renders a date range for display.
// Within one month: "Jun 1-5, 2025". Across months: "Jun 28 - Jul 5, 2025",
// where the year is always the end date's.
func FormatDateRange(start, end time.Time) string {
	if start.Month() == end.Month() && start.Year() == end.Year() {
		return start.Format("Jan 2") + "-" + end.Format("2, 2006")
	}
	return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
}

// DaysBetween returns the inclusive number of days covered by a and b, in
// either order. It is never less than 1.
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// midnight truncates t to the start of its calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// at returns the calendar day of t at the given hour.
func at(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}
