package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind discriminates the three itinerary entry variants.
type ItemKind string

const (
	KindTransportation ItemKind = "transportation"
	KindLodging        ItemKind = "lodging"
	KindActivity       ItemKind = "activity"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindTransportation, KindLodging, KindActivity:
		return true
	}
	return false
}

// ItineraryItem is one scheduled entry of a trip. Exactly one of
// Transportation, Lodging or Activity is set, matching Kind.
// Order is the entry's position; orders are unique and dense within a trip.
type ItineraryItem struct {
	ID               uuid.UUID
	TripID           uuid.UUID
	Kind             ItemKind
	Order            int
	Description      string
	ConfirmationLink string
	Cost             *float64

	Transportation *Transportation
	Lodging        *Lodging
	Activity       *Activity

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transportation is a leg between two cities.
type Transportation struct {
	Mode       string
	DepartCity string
	ArriveCity string
	DepartTime *time.Time
	ArriveTime *time.Time
}

// Lodging is a stay at one place.
type Lodging struct {
	Name         string
	Address      string
	CheckinTime  *time.Time
	CheckoutTime *time.Time
}

// Activity is a user-added event. The generator never produces activities.
type Activity struct {
	Name            string
	Address         string
	StartTime       *time.Time
	DurationMinutes *int
	Description     string
}

// ItineraryItemPatch holds optional field updates for an existing item.
// Order is not patchable here; moves go through the reindexing operations.
type ItineraryItemPatch struct {
	Description      *string
	ConfirmationLink *string
	Cost             *float64

	Mode       *string
	DepartCity *string
	ArriveCity *string
	DepartTime *time.Time
	ArriveTime *time.Time

	LodgingName    *string
	LodgingAddress *string
	CheckinTime    *time.Time
	CheckoutTime   *time.Time

	ActivityName        *string
	ActivityAddress     *string
	ActivityDescription *string
	StartTime           *time.Time
	DurationMinutes     *int
}

// Apply copies the non-nil fields of p onto item. Fields belonging to a
// variant other than item.Kind are ignored.
func (p ItineraryItemPatch) Apply(item *ItineraryItem) {
	setString(&item.Description, p.Description)
	setString(&item.ConfirmationLink, p.ConfirmationLink)
	if p.Cost != nil {
		c := *p.Cost
		item.Cost = &c
	}

	switch item.Kind {
	case KindTransportation:
		if item.Transportation == nil {
			item.Transportation = &Transportation{}
		}
		t := item.Transportation
		setString(&t.Mode, p.Mode)
		setString(&t.DepartCity, p.DepartCity)
		setString(&t.ArriveCity, p.ArriveCity)
		setTime(&t.DepartTime, p.DepartTime)
		setTime(&t.ArriveTime, p.ArriveTime)
	case KindLodging:
		if item.Lodging == nil {
			item.Lodging = &Lodging{}
		}
		l := item.Lodging
		setString(&l.Name, p.LodgingName)
		setString(&l.Address, p.LodgingAddress)
		setTime(&l.CheckinTime, p.CheckinTime)
		setTime(&l.CheckoutTime, p.CheckoutTime)
	case KindActivity:
		if item.Activity == nil {
			item.Activity = &Activity{}
		}
		a := item.Activity
		setString(&a.Name, p.ActivityName)
		setString(&a.Address, p.ActivityAddress)
		setString(&a.Description, p.ActivityDescription)
		setTime(&a.StartTime, p.StartTime)
		if p.DurationMinutes != nil {
			d := *p.DurationMinutes
			a.DurationMinutes = &d
		}
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setTime(dst **time.Time, src *time.Time) {
	if src != nil {
		t := *src
		*dst = &t
	}
}
