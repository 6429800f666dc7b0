package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/itinerary"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	store repo.Store
}

// NewTripService constructs a TripService backed by the provided Store.
func NewTripService(store repo.Store) *TripService {
	return &TripService{store: store}
}

// Create validates a new trip, generates its skeleton itinerary and persists
// the trip, its destinations and the generated items in one transaction.
//
// Every rule violation is reported at once; the returned error satisfies
// errors.Is(err, domain.ErrValidation) and unwraps to one *domain.FieldError
// per violation.
func (s *TripService) Create(ctx context.Context, userID string, in domain.NewTrip) (domain.TripDetail, error) {
	in = normalizeNewTrip(in)

	errs := &errors.M{}
	errs.Append(validateTrip(in.Title, in.HomeCity, in.StartDate, in.EndDate)...)
	errs.Append(validateDestinations(in.Destinations)...)
	if err := errs.Err(); err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	items, err := itinerary.Generate(in.HomeCity, in.Destinations, in.StartDate, in.EndDate)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	var detail domain.TripDetail
	err = s.store.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.Create(ctx, domain.Trip{
			UserID:      userID,
			Title:       in.Title,
			Description: in.Description,
			HomeCity:    in.HomeCity,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		})
		if err != nil {
			return err
		}
		dests, err := r.Destinations.CreateBatch(ctx, trip.ID, in.Destinations)
		if err != nil {
			return err
		}
		saved := make([]domain.ItineraryItem, 0, len(items))
		for _, it := range items {
			it.TripID = trip.ID
			created, err := r.Items.Create(ctx, it)
			if err != nil {
				return err
			}
			saved = append(saved, created)
		}
		detail, err = newDetail(trip, dests, saved)
		return err
	})
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	ctxlog.Logger(ctx).Info("trip created",
		"trip_id", detail.ID,
		"destinations", len(detail.Destinations),
		"items", len(detail.Items),
	)
	return detail, nil
}

// Get returns a trip with its dated destinations and its itinerary.
// Destination dates are recomputed from the current list on every read, so
// an edited stay length moves every later destination.
func (s *TripService) Get(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripDetail, error) {
	r := s.store.Repos()
	trip, err := ownedTrip(ctx, r, userID, tripID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	dests, err := r.Destinations.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	items, err := r.Items.ListByTripID(ctx, tripID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	detail, err := newDetail(trip, dests, items)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return detail, nil
}

// List returns one page of the user's trips, latest start date first, and the
// user's total number of trips. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.store.Repos().Trips.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return nonNil(trips), total, nil
}

// Update applies a patch to a trip. A non-nil destination list replaces the
// stored one wholesale. The itinerary is left as it is: edits after creation
// never re-run the generator.
func (s *TripService) Update(ctx context.Context, userID string, tripID uuid.UUID, patch domain.TripPatch) (domain.TripDetail, error) {
	var detail domain.TripDetail
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		trip, err := lockOwnedTrip(ctx, r, userID, tripID)
		if err != nil {
			return err
		}
		applyTripPatch(&trip, patch)

		errs := &errors.M{}
		errs.Append(validateTrip(trip.Title, trip.HomeCity, trip.StartDate, trip.EndDate)...)
		var dests []domain.Destination
		if patch.Destinations != nil {
			dests = normalizeDestinations(*patch.Destinations)
			errs.Append(validateDestinations(dests)...)
		}
		if err := errs.Err(); err != nil {
			return err
		}

		trip, err = r.Trips.Update(ctx, trip)
		if err != nil {
			return err
		}
		if patch.Destinations != nil {
			if err := r.Destinations.DeleteByTripID(ctx, tripID); err != nil {
				return err
			}
			if dests, err = r.Destinations.CreateBatch(ctx, tripID, dests); err != nil {
				return err
			}
		} else if dests, err = r.Destinations.ListByTripID(ctx, tripID); err != nil {
			return err
		}
		items, err := r.Items.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		detail, err = newDetail(trip, dests, items)
		return err
	})
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	ctxlog.Logger(ctx).Info("trip updated", "trip_id", tripID, "destinations_replaced", patch.Destinations != nil)
	return detail, nil
}

// Delete removes a trip together with its destinations and items.
func (s *TripService) Delete(ctx context.Context, userID string, tripID uuid.UUID) error {
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := lockOwnedTrip(ctx, r, userID, tripID); err != nil {
			return err
		}
		return r.Trips.Delete(ctx, tripID)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	ctxlog.Logger(ctx).Info("trip deleted", "trip_id", tripID)
	return nil
}

// newDetail assembles a TripDetail, dating the destinations against the trip's
// start. A terminal destination is shown as running until the trip's end.
func newDetail(trip domain.Trip, dests []domain.Destination, items []domain.ItineraryItem) (domain.TripDetail, error) {
	dated, err := itinerary.ComputeDestinationDates(trip.StartDate,
		itinerary.WithDisplayStay(dests, trip.StartDate, trip.EndDate))
	if err != nil {
		return domain.TripDetail{}, err
	}
	return domain.TripDetail{
		Trip:         trip,
		Destinations: dated,
		Items:        nonNil(itinerary.Reindex(items)),
	}, nil
}

func normalizeNewTrip(in domain.NewTrip) domain.NewTrip {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.HomeCity = strings.TrimSpace(in.HomeCity)
	in.StartDate = dateOnly(in.StartDate)
	in.EndDate = dateOnly(in.EndDate)
	in.Destinations = normalizeDestinations(in.Destinations)
	return in
}

// normalizeDestinations trims city names and assigns Order by position.
func normalizeDestinations(dests []domain.Destination) []domain.Destination {
	out := make([]domain.Destination, len(dests))
	for i, d := range dests {
		out[i] = domain.Destination{
			City:       strings.TrimSpace(d.City),
			DaysToStay: d.DaysToStay,
			Order:      i,
		}
	}
	return out
}

func applyTripPatch(trip *domain.Trip, p domain.TripPatch) {
	if p.Title != nil {
		trip.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		trip.Description = strings.TrimSpace(*p.Description)
	}
	if p.StartDate != nil {
		trip.StartDate = dateOnly(*p.StartDate)
	}
	if p.EndDate != nil {
		trip.EndDate = dateOnly(*p.EndDate)
	}
}

// validateTrip checks the trip-level fields.
func validateTrip(title, homeCity string, start, end time.Time) []error {
	var errs []error
	if blank(title) {
		errs = append(errs, domain.Invalid("title", domain.ErrEmptyOrBlankName))
	}
	if blank(homeCity) {
		errs = append(errs, domain.Invalid("home_city", domain.ErrEmptyOrBlankName))
	}
	if start.After(end) {
		errs = append(errs, domain.Invalid("end_date", domain.ErrInvalidDateRange))
	}
	return errs
}

// validateDestinations enforces the shape the generator relies on: at least
// one destination, no blank city, a positive stay everywhere but the last,
// and a last stay that is either absent or positive.
func validateDestinations(dests []domain.Destination) []error {
	if len(dests) == 0 {
		return []error{domain.Invalid("destinations", domain.ErrEmptyDestinationList)}
	}
	var errs []error
	last := len(dests) - 1
	for i, d := range dests {
		if blank(d.City) {
			errs = append(errs, domain.Invalid(fmt.Sprintf("destinations[%d].city", i), domain.ErrEmptyOrBlankName))
		}
		switch {
		case d.DaysToStay == nil && i != last:
			errs = append(errs, domain.Invalid(fmt.Sprintf("destinations[%d].days_to_stay", i),
				fmt.Errorf("%w: required for every destination but the last", domain.ErrInvalidStayLength)))
		case d.DaysToStay != nil && *d.DaysToStay < 1:
			errs = append(errs, domain.Invalid(fmt.Sprintf("destinations[%d].days_to_stay", i),
				fmt.Errorf("%w: must be at least 1", domain.ErrInvalidStayLength)))
		}
	}
	return errs
}
