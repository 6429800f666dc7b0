package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/itinerary"
)

// Request and response bodies. Field names follow openapi.yaml: snake_case,
// calendar dates as "YYYY-MM-DD", timestamps as RFC 3339.

type DestinationRequest struct {
	City       string `json:"city"`
	DaysToStay *int   `json:"days_to_stay"`
}

type CreateTripRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	HomeCity     string               `json:"home_city"`
	StartDate    *openapi_types.Date  `json:"start_date"`
	EndDate      *openapi_types.Date  `json:"end_date"`
	Destinations []DestinationRequest `json:"destinations"`
}

type UpdateTripRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	StartDate    *openapi_types.Date   `json:"start_date"`
	EndDate      *openapi_types.Date   `json:"end_date"`
	Destinations *[]DestinationRequest `json:"destinations"`
}

type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	HomeCity    string             `json:"home_city"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	DateRange   string             `json:"date_range"`
	Days        int                `json:"days"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type Destination struct {
	ID         uuid.UUID          `json:"id"`
	City       string             `json:"city"`
	DaysToStay *int               `json:"days_to_stay"`
	Order      int                `json:"order"`
	StartDate  openapi_types.Date `json:"start_date"`
	EndDate    openapi_types.Date `json:"end_date"`
	DateRange  string             `json:"date_range"`
}

type TripDetail struct {
	Trip
	Destinations []Destination   `json:"destinations"`
	Itinerary    []ItineraryItem `json:"itinerary"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Transportation struct {
	Mode       string     `json:"mode"`
	DepartCity string     `json:"depart_city"`
	ArriveCity string     `json:"arrive_city"`
	DepartTime *time.Time `json:"depart_time"`
	ArriveTime *time.Time `json:"arrive_time"`
}

type Lodging struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	CheckinTime  *time.Time `json:"checkin_time"`
	CheckoutTime *time.Time `json:"checkout_time"`
}

type Activity struct {
	Name            string     `json:"name"`
	Address         string     `json:"address"`
	Description     string     `json:"description"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

type ItineraryItem struct {
	ID               uuid.UUID       `json:"id"`
	Kind             string          `json:"kind"`
	Order            int             `json:"order"`
	Description      string          `json:"description"`
	ConfirmationLink string          `json:"confirmation_link"`
	Cost             *float64        `json:"cost"`
	Transportation   *Transportation `json:"transportation,omitempty"`
	Lodging          *Lodging        `json:"lodging,omitempty"`
	Activity         *Activity       `json:"activity,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateItineraryItemRequest adds one item. Position is the zero-based index
// to insert at; omitted means append.
type CreateItineraryItemRequest struct {
	Kind             string          `json:"kind"`
	Position         *int            `json:"position"`
	Description      string          `json:"description"`
	ConfirmationLink string          `json:"confirmation_link"`
	Cost             *float64        `json:"cost"`
	Transportation   *Transportation `json:"transportation"`
	Lodging          *Lodging        `json:"lodging"`
	Activity         *Activity       `json:"activity"`
}

// UpdateItineraryItemRequest is a partial update; fields of a kind other than
// the item's are ignored.
type UpdateItineraryItemRequest struct {
	Description      *string  `json:"description"`
	ConfirmationLink *string  `json:"confirmation_link"`
	Cost             *float64 `json:"cost"`

	Mode       *string    `json:"mode"`
	DepartCity *string    `json:"depart_city"`
	ArriveCity *string    `json:"arrive_city"`
	DepartTime *time.Time `json:"depart_time"`
	ArriveTime *time.Time `json:"arrive_time"`

	LodgingName    *string    `json:"lodging_name"`
	LodgingAddress *string    `json:"lodging_address"`
	CheckinTime    *time.Time `json:"checkin_time"`
	CheckoutTime   *time.Time `json:"checkout_time"`

	ActivityName        *string    `json:"activity_name"`
	ActivityAddress     *string    `json:"activity_address"`
	ActivityDescription *string    `json:"activity_description"`
	StartTime           *time.Time `json:"start_time"`
	DurationMinutes     *int       `json:"duration_minutes"`
}

type MoveItineraryItemRequest struct {
	To *int `json:"to"`
}

type Health struct {
	Status string `json:"status"`
}

// --- mapping helpers --------------------------------------------------------

func destinationsFromRequest(in []DestinationRequest) []domain.Destination {
	out := make([]domain.Destination, len(in))
	for i, d := range in {
		out[i] = domain.Destination{City: d.City, DaysToStay: d.DaysToStay, Order: i}
	}
	return out
}

// requestToNewTrip converts a CreateTripRequest into a domain.NewTrip.
// Returns an error if required dates are missing; every other rule is the
// service's to check.
func requestToNewTrip(body CreateTripRequest) (domain.NewTrip, error) {
	var missing []string
	if body.StartDate == nil {
		missing = append(missing, "start_date")
	}
	if body.EndDate == nil {
		missing = append(missing, "end_date")
	}
	if len(missing) > 0 {
		return domain.NewTrip{}, badRequest("missing required field(s): %v", missing)
	}
	return domain.NewTrip{
		Title:        body.Title,
		Description:  body.Description,
		HomeCity:     body.HomeCity,
		StartDate:    body.StartDate.Time,
		EndDate:      body.EndDate.Time,
		Destinations: destinationsFromRequest(body.Destinations),
	}, nil
}

func requestToTripPatch(body UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{Title: body.Title, Description: body.Description}
	if body.StartDate != nil {
		p.StartDate = &body.StartDate.Time
	}
	if body.EndDate != nil {
		p.EndDate = &body.EndDate.Time
	}
	if body.Destinations != nil {
		dests := destinationsFromRequest(*body.Destinations)
		p.Destinations = &dests
	}
	return p
}

func requestToItem(body CreateItineraryItemRequest) domain.ItineraryItem {
	item := domain.ItineraryItem{
		Kind:             domain.ItemKind(body.Kind),
		Description:      body.Description,
		ConfirmationLink: body.ConfirmationLink,
		Cost:             body.Cost,
	}
	if t := body.Transportation; t != nil {
		item.Transportation = &domain.Transportation{
			Mode:       t.Mode,
			DepartCity: t.DepartCity,
			ArriveCity: t.ArriveCity,
			DepartTime: t.DepartTime,
			ArriveTime: t.ArriveTime,
		}
	}
	if l := body.Lodging; l != nil {
		item.Lodging = &domain.Lodging{
			Name:         l.Name,
			Address:      l.Address,
			CheckinTime:  l.CheckinTime,
			CheckoutTime: l.CheckoutTime,
		}
	}
	if a := body.Activity; a != nil {
		item.Activity = &domain.Activity{
			Name:            a.Name,
			Address:         a.Address,
			Description:     a.Description,
			StartTime:       a.StartTime,
			DurationMinutes: a.DurationMinutes,
		}
	}
	return item
}

func requestToItemPatch(b UpdateItineraryItemRequest) domain.ItineraryItemPatch {
	return domain.ItineraryItemPatch{
		Description:         b.Description,
		ConfirmationLink:    b.ConfirmationLink,
		Cost:                b.Cost,
		Mode:                b.Mode,
		DepartCity:          b.DepartCity,
		ArriveCity:          b.ArriveCity,
		DepartTime:          b.DepartTime,
		ArriveTime:          b.ArriveTime,
		LodgingName:         b.LodgingName,
		LodgingAddress:      b.LodgingAddress,
		CheckinTime:         b.CheckinTime,
		CheckoutTime:        b.CheckoutTime,
		ActivityName:        b.ActivityName,
		ActivityAddress:     b.ActivityAddress,
		ActivityDescription: b.ActivityDescription,
		StartTime:           b.StartTime,
		DurationMinutes:     b.DurationMinutes,
	}
}

// tripToResponse converts a domain.Trip into its JSON form, adding the
// display range and the inclusive day count.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		HomeCity:    t.HomeCity,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		DateRange:   itinerary.FormatDateRange(t.StartDate, t.EndDate),
		Days:        itinerary.DaysBetween(t.StartDate, t.EndDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func detailToResponse(d domain.TripDetail) TripDetail {
	dests := make([]Destination, len(d.Destinations))
	for i, dd := range d.Destinations {
		dests[i] = Destination{
			ID:         dd.ID,
			City:       dd.City,
			DaysToStay: dd.DaysToStay,
			Order:      dd.Order,
			StartDate:  openapi_types.Date{Time: dd.StartDate},
			EndDate:    openapi_types.Date{Time: dd.EndDate},
			DateRange:  itinerary.FormatDateRange(dd.StartDate, dd.EndDate),
		}
	}
	return TripDetail{
		Trip:         tripToResponse(d.Trip),
		Destinations: dests,
		Itinerary:    itemsToResponse(d.Items),
	}
}

func itemToResponse(it domain.ItineraryItem) ItineraryItem {
	resp := ItineraryItem{
		ID:               it.ID,
		Kind:             string(it.Kind),
		Order:            it.Order,
		Description:      it.Description,
		ConfirmationLink: it.ConfirmationLink,
		Cost:             it.Cost,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
	if t := it.Transportation; t != nil {
		resp.Transportation = &Transportation{
			Mode:       t.Mode,
			DepartCity: t.DepartCity,
			ArriveCity: t.ArriveCity,
			DepartTime: t.DepartTime,
			ArriveTime: t.ArriveTime,
		}
	}
	if l := it.Lodging; l != nil {
		resp.Lodging = &Lodging{
			Name:         l.Name,
			Address:      l.Address,
			CheckinTime:  l.CheckinTime,
			CheckoutTime: l.CheckoutTime,
		}
	}
	if a := it.Activity; a != nil {
		resp.Activity = &Activity{
			Name:            a.Name,
			Address:         a.Address,
			Description:     a.Description,
			StartTime:       a.StartTime,
			DurationMinutes: a.DurationMinutes,
		}
	}
	return resp
}

func itemsToResponse(items []domain.ItineraryItem) []ItineraryItem {
	out := make([]ItineraryItem, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}
