package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/itinerary"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
)

// ItineraryService handles manual edits to a trip's itinerary after creation.
// Every change to the order space goes through the pure operations of the
// itinerary package and is written back in one transaction, so orders stay
// dense and unique.
type ItineraryService struct {
	store repo.Store

	mu  sync.Mutex // guards rng
	rng itinerary.Intn
}

// NewItineraryService constructs an ItineraryService. rng supplies the
// randomness for placeholder lodging and activity names; pass
// itinerary.NewRand() in production and a fixed source in tests.
func NewItineraryService(store repo.Store, rng itinerary.Intn) *ItineraryService {
	return &ItineraryService{store: store, rng: rng}
}

// List returns the trip's items ordered by position. Always non-nil.
func (s *ItineraryService) List(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	r := s.store.Repos()
	if _, err := ownedTrip(ctx, r, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	items, err := r.Items.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	return nonNil(items), nil
}

// Create adds an item at position pos, shifting later items down. A nil pos
// appends. A lodging or activity without a name gets a generated one; a
// lodging is named after the city the traveller is in at that position.
func (s *ItineraryService) Create(ctx context.Context, userID string, tripID uuid.UUID, item domain.ItineraryItem, pos *int) (domain.ItineraryItem, error) {
	item = normalizeItem(item)
	if err := validateItem(item); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}

	var created domain.ItineraryItem
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		trip, err := lockOwnedTrip(ctx, r, userID, tripID)
		if err != nil {
			return err
		}
		current, err := r.Items.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		at := len(current)
		if pos != nil {
			at = min(max(*pos, 0), len(current))
		}
		s.fillNames(&item, cityAt(itinerary.Reindex(current), at, trip.HomeCity))

		item.ID = uuid.Nil
		item.TripID = tripID
		next := itinerary.Insert(current, at, item)
		if err := writeOrders(ctx, r, tripID, current, next); err != nil {
			return err
		}
		item.Order = at
		created, err = r.Items.Create(ctx, item)
		return err
	})
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	ctxlog.Logger(ctx).Info("itinerary item created", "trip_id", tripID, "item_id", created.ID, "kind", created.Kind, "order", created.Order)
	return created, nil
}

// Update applies a patch to the content of an item. Kind and position do not
// change; use Move to reposition.
func (s *ItineraryService) Update(ctx context.Context, userID string, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error) {
	var updated domain.ItineraryItem
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := lockOwnedTrip(ctx, r, userID, tripID); err != nil {
			return err
		}
		item, err := r.Items.GetByID(ctx, tripID, itemID)
		if err != nil {
			return err
		}
		patch.Apply(&item)
		item = normalizeItem(item)
		if err := validateItem(item); err != nil {
			return err
		}
		updated, err = r.Items.Update(ctx, item)
		return err
	})
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Update: %w", err)
	}
	return updated, nil
}

// Move repositions an item to index to (clamped to the list) and returns the
// whole itinerary in its new order.
func (s *ItineraryService) Move(ctx context.Context, userID string, tripID, itemID uuid.UUID, to int) ([]domain.ItineraryItem, error) {
	var next []domain.ItineraryItem
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := lockOwnedTrip(ctx, r, userID, tripID); err != nil {
			return err
		}
		current, err := r.Items.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		if next, err = itinerary.Move(current, itemID, to); err != nil {
			return err
		}
		return writeOrders(ctx, r, tripID, current, next)
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Move: %w", err)
	}
	ctxlog.Logger(ctx).Info("itinerary item moved", "trip_id", tripID, "item_id", itemID, "to", to)
	return next, nil
}

// Delete removes an item and closes the gap in the order space.
func (s *ItineraryService) Delete(ctx context.Context, userID string, tripID, itemID uuid.UUID) error {
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := lockOwnedTrip(ctx, r, userID, tripID); err != nil {
			return err
		}
		current, err := r.Items.ListByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		next, err := itinerary.Remove(current, itemID)
		if err != nil {
			return err
		}
		if err := r.Items.Delete(ctx, tripID, itemID); err != nil {
			return err
		}
		return writeOrders(ctx, r, tripID, current, next)
	})
	if err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	ctxlog.Logger(ctx).Info("itinerary item deleted", "trip_id", tripID, "item_id", itemID)
	return nil
}

// writeOrders stores the new order of every item whose position changed.
func writeOrders(ctx context.Context, r repo.Repos, tripID uuid.UUID, before, after []domain.ItineraryItem) error {
	for _, it := range itinerary.Changed(before, after) {
		if err := r.Items.SetOrder(ctx, tripID, it.ID, it.Order); err != nil {
			return err
		}
	}
	return nil
}

func (s *ItineraryService) fillNames(item *domain.ItineraryItem, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case item.Lodging != nil && item.Lodging.Name == "":
		item.Lodging.Name = itinerary.LodgingName(s.rng, city)
	case item.Activity != nil && item.Activity.Name == "":
		item.Activity.Name = itinerary.ActivityName(s.rng)
	}
}

// cityAt returns the city the traveller is in just before position pos of
// an ordered itinerary: the arrival city of the closest preceding
// transportation item, or home if there is none.
func cityAt(items []domain.ItineraryItem, pos int, home string) string {
	for i := min(pos, len(items)) - 1; i >= 0; i-- {
		if t := items[i].Transportation; t != nil && t.ArriveCity != "" {
			return t.ArriveCity
		}
	}
	return home
}

// normalizeItem trims free-text fields and makes sure the variant matching
// Kind is present so later code can rely on it.
func normalizeItem(item domain.ItineraryItem) domain.ItineraryItem {
	item.Description = strings.TrimSpace(item.Description)
	item.ConfirmationLink = strings.TrimSpace(item.ConfirmationLink)
	switch item.Kind {
	case domain.KindTransportation:
		t := domain.Transportation{}
		if item.Transportation != nil {
			t = *item.Transportation
		}
		t.Mode = strings.TrimSpace(t.Mode)
		t.DepartCity = strings.TrimSpace(t.DepartCity)
		t.ArriveCity = strings.TrimSpace(t.ArriveCity)
		item.Transportation, item.Lodging, item.Activity = &t, nil, nil
	case domain.KindLodging:
		l := domain.Lodging{}
		if item.Lodging != nil {
			l = *item.Lodging
		}
		l.Name = strings.TrimSpace(l.Name)
		l.Address = strings.TrimSpace(l.Address)
		item.Transportation, item.Lodging, item.Activity = nil, &l, nil
	case domain.KindActivity:
		a := domain.Activity{}
		if item.Activity != nil {
			a = *item.Activity
		}
		a.Name = strings.TrimSpace(a.Name)
		a.Address = strings.TrimSpace(a.Address)
		a.Description = strings.TrimSpace(a.Description)
		item.Transportation, item.Lodging, item.Activity = nil, nil, &a
	}
	return item
}

// validateItem checks an item after normalizeItem, reporting every violation.
func validateItem(item domain.ItineraryItem) error {
	errs := &errors.M{}
	if !item.Kind.Valid() {
		errs.Append(domain.Invalid("kind",
			fmt.Errorf("%w: must be one of transportation, lodging, activity", domain.ErrValidation)))
		return errs.Err()
	}
	if item.Cost != nil && *item.Cost < 0 {
		errs.Append(domain.Invalid("cost", fmt.Errorf("%w: must not be negative", domain.ErrValidation)))
	}
	switch item.Kind {
	case domain.KindTransportation:
		t := item.Transportation
		if t.DepartTime != nil && t.ArriveTime != nil && t.ArriveTime.Before(*t.DepartTime) {
			errs.Append(domain.Invalid("arrive_time", domain.ErrInvalidDateRange))
		}
	case domain.KindLodging:
		l := item.Lodging
		if l.CheckinTime != nil && l.CheckoutTime != nil && l.CheckoutTime.Before(*l.CheckinTime) {
			errs.Append(domain.Invalid("checkout_time", domain.ErrInvalidDateRange))
		}
	case domain.KindActivity:
		if d := item.Activity.DurationMinutes; d != nil && *d < 0 {
			errs.Append(domain.Invalid("duration_minutes", fmt.Errorf("%w: must not be negative", domain.ErrValidation)))
		}
	}
	return errs.Err()
}
