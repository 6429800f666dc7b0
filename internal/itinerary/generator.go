package itinerary

import (
	"fmt"
	"time"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// Placeholder schedule used for generated entries. These are not real flight
// or hotel times; users refine them afterwards.
const (
	DefaultMode = "flight"

	legDepartHour    = 8
	legArriveHour    = 12
	checkinHour      = 15
	checkoutHour     = 11
	returnDepartHour = 10
	returnArriveHour = 14
)

// Generate builds the skeleton itinerary of a trip: one transportation leg
// into each destination, a lodging stay at every destination but the last, and
// a final leg from the last destination back to homeCity on end.
//
// dests must already be in travel order; Generate does not sort. Each lodging
// stay advances the running date to its checkout day, which is also the
// departure day of the next leg. The last destination gets no lodging and does
// not advance the date; the return leg is timed from end.
//
// A destination other than the last without a positive DaysToStay is a caller
// error and is reported as domain.ErrInvalidStayLength.
func Generate(homeCity string, dests []domain.Destination, start, end time.Time) ([]domain.ItineraryItem, error) {
	for i, d := range dests[:max(len(dests)-1, 0)] {
		if d.DaysToStay == nil || *d.DaysToStay < 1 {
			return nil, fmt.Errorf("%w: destination %d (%s) is not last and has no positive stay", domain.ErrInvalidStayLength, i+1, d.City)
		}
	}

	items := make([]domain.ItineraryItem, 0, 2*len(dests)+1)
	order := 0
	cursor := midnight(start)

	for i, d := range dests {
		origin := homeCity
		if i > 0 {
			origin = dests[i-1].City
		}
		items = append(items, leg(order, origin, d.City, at(cursor, legDepartHour), at(cursor, legArriveHour),
			fmt.Sprintf("Transportation from %s to %s", origin, d.City)))
		order++

		if i == len(dests)-1 || d.DaysToStay == nil || *d.DaysToStay < 1 {
			continue
		}
		checkout := cursor.AddDate(0, 0, *d.DaysToStay)
		checkin := at(cursor, checkinHour)
		checkoutAt := at(checkout, checkoutHour)
		items = append(items, domain.ItineraryItem{
			Kind:        domain.KindLodging,
			Order:       order,
			Description: fmt.Sprintf("Accommodation in %s", d.City),
			Lodging: &domain.Lodging{
				Name:         fmt.Sprintf("Hotel in %s", d.City),
				Address:      d.City,
				CheckinTime:  &checkin,
				CheckoutTime: &checkoutAt,
			},
		})
		order++
		cursor = checkout
	}

	if len(dests) > 0 {
		last := dests[len(dests)-1].City
		items = append(items, leg(order, last, homeCity, at(end, returnDepartHour), at(end, returnArriveHour),
			fmt.Sprintf("Return transportation from %s to %s", last, homeCity)))
	}
	return items, nil
}

func leg(order int, from, to string, depart, arrive time.Time, desc string) domain.ItineraryItem {
	return domain.ItineraryItem{
		Kind:        domain.KindTransportation,
		Order:       order,
		Description: desc,
		Transportation: &domain.Transportation{
			Mode:       DefaultMode,
			DepartCity: from,
			ArriveCity: to,
			DepartTime: &depart,
			ArriveTime: &arrive,
		},
	}
}
