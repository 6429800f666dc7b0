package service_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
)

// fakeStore is an in-memory repo.Store. InTx snapshots state and restores it
// when fn fails, and checks at "commit" that every trip's item orders are
// unique and dense, the same guarantee the deferred Postgres constraint plus
// the order operations give.
//
// Trips locked with GetByIDForUpdate are recorded in locked; taking such a
// lock outside InTx is an error, since Postgres would drop it immediately.
//
// Set fail["items.create"] (or any other "<repo>.<method>" key) to make that
// call return the error.
type fakeStore struct {
	trips map[uuid.UUID]domain.Trip
	dests map[uuid.UUID][]domain.Destination
	items map[uuid.UUID]domain.ItineraryItem
	fail  map[string]error

	inTx   bool
	locked []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips: map[uuid.UUID]domain.Trip{},
		dests: map[uuid.UUID][]domain.Destination{},
		items: map[uuid.UUID]domain.ItineraryItem{},
		fail:  map[string]error{},
	}
}

var _ repo.Store = (*fakeStore)(nil)

func (f *fakeStore) Repos() repo.Repos {
	return repo.Repos{Trips: fakeTrips{f}, Destinations: fakeDests{f}, Items: fakeItems{f}}
}

func (f *fakeStore) InTx(_ context.Context, fn func(repo.Repos) error) error {
	trips, dests, items := maps.Clone(f.trips), maps.Clone(f.dests), f.cloneItems()
	restore := func() { f.trips, f.dests, f.items = trips, dests, items }

	f.inTx = true
	defer func() { f.inTx = false }()
	if err := fn(f.Repos()); err != nil {
		restore()
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	if err := f.checkOrders(); err != nil {
		restore()
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	return nil
}

func (f *fakeStore) checkOrders() error {
	byTrip := map[uuid.UUID][]int{}
	for _, it := range f.items {
		byTrip[it.TripID] = append(byTrip[it.TripID], it.Order)
	}
	for tripID, orders := range byTrip {
		slices.Sort(orders)
		for i, o := range orders {
			if o != i {
				return fmt.Errorf("trip %s: item orders %v are not dense and unique", tripID, orders)
			}
		}
	}
	return nil
}

func (f *fakeStore) cloneItems() map[uuid.UUID]domain.ItineraryItem {
	out := make(map[uuid.UUID]domain.ItineraryItem, len(f.items))
	for id, it := range f.items {
		out[id] = cloneItem(it)
	}
	return out
}

func (f *fakeStore) err(op string) error {
	return f.fail[op]
}

// itemsOf returns the stored items of a trip sorted by order.
func (f *fakeStore) itemsOf(tripID uuid.UUID) []domain.ItineraryItem {
	var out []domain.ItineraryItem
	for _, it := range f.items {
		if it.TripID == tripID {
			out = append(out, cloneItem(it))
		}
	}
	slices.SortFunc(out, func(a, b domain.ItineraryItem) int { return a.Order - b.Order })
	return out
}

// cloneItem deep-copies the variant so callers cannot mutate stored state.
func cloneItem(it domain.ItineraryItem) domain.ItineraryItem {
	if it.Transportation != nil {
		t := *it.Transportation
		it.Transportation = &t
	}
	if it.Lodging != nil {
		l := *it.Lodging
		it.Lodging = &l
	}
	if it.Activity != nil {
		a := *it.Activity
		it.Activity = &a
	}
	return it
}

// ---- trips -----------------------------------------------------------------

type fakeTrips struct{ f *fakeStore }

func (r fakeTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	if err := r.f.err("trips.create"); err != nil {
		return domain.Trip{}, err
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.f.trips[t.ID] = t
	return t, nil
}

func (r fakeTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	t, ok := r.f.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r fakeTrips) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	if !r.f.inTx {
		return domain.Trip{}, fmt.Errorf("trip %s: row lock taken outside a transaction", id)
	}
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	r.f.locked = append(r.f.locked, id)
	return t, nil
}

func (r fakeTrips) ListByUser(_ context.Context, userID string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var all []domain.Trip
	for _, t := range r.f.trips {
		if t.UserID == userID {
			all = append(all, t)
		}
	}
	slices.SortFunc(all, func(a, b domain.Trip) int { return b.StartDate.Compare(a.StartDate) })
	lo := min(p.Offset(), len(all))
	hi := min(lo+p.Limit, len(all))
	return all[lo:hi], int64(len(all)), nil
}

func (r fakeTrips) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	old, ok := r.f.trips[t.ID]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	old.Title, old.Description = t.Title, t.Description
	old.StartDate, old.EndDate = t.StartDate, t.EndDate
	old.UpdatedAt = time.Now()
	r.f.trips[t.ID] = old
	return old, nil
}

func (r fakeTrips) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.f.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.f.trips, id)
	delete(r.f.dests, id)
	maps.DeleteFunc(r.f.items, func(_ uuid.UUID, it domain.ItineraryItem) bool { return it.TripID == id })
	return nil
}

// ---- destinations ----------------------------------------------------------

type fakeDests struct{ f *fakeStore }

func (r fakeDests) CreateBatch(_ context.Context, tripID uuid.UUID, dests []domain.Destination) ([]domain.Destination, error) {
	if err := r.f.err("destinations.createbatch"); err != nil {
		return nil, err
	}
	out := make([]domain.Destination, len(dests))
	for i, d := range dests {
		d.ID = uuid.New()
		d.TripID = tripID
		out[i] = d
	}
	r.f.dests[tripID] = append(slices.Clone(r.f.dests[tripID]), out...)
	return out, nil
}

func (r fakeDests) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Destination, error) {
	out := slices.Clone(r.f.dests[tripID])
	slices.SortFunc(out, func(a, b domain.Destination) int { return a.Order - b.Order })
	return out, nil
}

func (r fakeDests) DeleteByTripID(_ context.Context, tripID uuid.UUID) error {
	delete(r.f.dests, tripID)
	return nil
}

// ---- items -----------------------------------------------------------------

type fakeItems struct{ f *fakeStore }

func (r fakeItems) Create(_ context.Context, it domain.ItineraryItem) (domain.ItineraryItem, error) {
	if err := r.f.err("items.create"); err != nil {
		return domain.ItineraryItem{}, err
	}
	it = cloneItem(it)
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	r.f.items[it.ID] = it
	return cloneItem(it), nil
}

func (r fakeItems) GetByID(_ context.Context, tripID, itemID uuid.UUID) (domain.ItineraryItem, error) {
	it, ok := r.f.items[itemID]
	if !ok || it.TripID != tripID {
		return domain.ItineraryItem{}, domain.ErrNotFound
	}
	return cloneItem(it), nil
}

func (r fakeItems) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	return r.f.itemsOf(tripID), nil
}

func (r fakeItems) Update(_ context.Context, it domain.ItineraryItem) (domain.ItineraryItem, error) {
	old, ok := r.f.items[it.ID]
	if !ok || old.TripID != it.TripID {
		return domain.ItineraryItem{}, domain.ErrNotFound
	}
	it = cloneItem(it)
	it.Kind, it.Order, it.CreatedAt = old.Kind, old.Order, old.CreatedAt
	it.UpdatedAt = time.Now()
	r.f.items[it.ID] = it
	return cloneItem(it), nil
}

func (r fakeItems) SetOrder(_ context.Context, tripID, itemID uuid.UUID, order int) error {
	it, ok := r.f.items[itemID]
	if !ok || it.TripID != tripID {
		return domain.ErrNotFound
	}
	it.Order = order
	r.f.items[itemID] = it
	return nil
}

func (r fakeItems) Delete(_ context.Context, tripID, itemID uuid.UUID) error {
	it, ok := r.f.items[itemID]
	if !ok || it.TripID != tripID {
		return domain.ErrNotFound
	}
	delete(r.f.items, itemID)
	return nil
}
