package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
	"github.com/jicongw/friendly-palm-tree/testutil"
)

func ptr[T any](v T) *T { return &v }

func transportFixture(tripID uuid.UUID, order int) domain.ItineraryItem {
	depart := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	arrive := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return domain.ItineraryItem{
		TripID:      tripID,
		Kind:        domain.KindTransportation,
		Order:       order,
		Description: "Transportation from Seattle to Tokyo",
		Cost:        ptr(812.5),
		Transportation: &domain.Transportation{
			Mode:       "flight",
			DepartCity: "Seattle",
			ArriveCity: "Tokyo",
			DepartTime: &depart,
			ArriveTime: &arrive,
		},
	}
}

func TestItineraryItemRepo_Create_Transportation(t *testing.T) {
	repos := newTestRepos(t)
	trip := mustCreateTrip(t, repos)
	input := transportFixture(trip.ID, 0)

	got, err := repos.Items.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, domain.KindTransportation, got.Kind)
	assert.Equal(t, 0, got.Order)
	require.NotNil(t, got.Cost)
	assert.InDelta(t, 812.5, *got.Cost, 0.001)
	require.NotNil(t, got.Transportation)
	assert.Nil(t, got.Lodging)
	assert.Nil(t, got.Activity)
	assert.Equal(t, "Tokyo", got.Transportation.ArriveCity)
	require.NotNil(t, got.Transportation.DepartTime)
	assert.True(t, got.Transportation.DepartTime.Equal(*input.Transportation.DepartTime))
}

func TestItineraryItemRepo_Create_LodgingAndActivity(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	checkin := time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)
	lodging, err := repos.Items.Create(ctx, domain.ItineraryItem{
		TripID: trip.ID,
		Kind:   domain.KindLodging,
		Order:  0,
		Lodging: &domain.Lodging{
			Name:        "Hotel in Tokyo",
			CheckinTime: &checkin,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, lodging.Lodging)
	assert.Equal(t, "Hotel in Tokyo", lodging.Lodging.Name)
	assert.Nil(t, lodging.Lodging.CheckoutTime)
	assert.Nil(t, lodging.Cost)

	activity, err := repos.Items.Create(ctx, domain.ItineraryItem{
		TripID: trip.ID,
		Kind:   domain.KindActivity,
		Order:  1,
		Activity: &domain.Activity{
			Name:            "Museum Visit",
			DurationMinutes: ptr(90),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, activity.Activity)
	require.NotNil(t, activity.Activity.DurationMinutes)
	assert.Equal(t, 90, *activity.Activity.DurationMinutes)
	assert.Nil(t, activity.Transportation)
}

func TestItineraryItemRepo_GetByID_WrongTrip(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	created, err := repos.Items.Create(ctx, transportFixture(trip.ID, 0))
	require.NoError(t, err)

	_, err = repos.Items.GetByID(ctx, uuid.New(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryItemRepo_ListByTripID_Ordered(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	for _, order := range []int{2, 0, 1} {
		_, err := repos.Items.Create(ctx, transportFixture(trip.ID, order))
		require.NoError(t, err)
	}

	got, err := repos.Items.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, it := range got {
		assert.Equal(t, i, it.Order)
	}
}

func TestItineraryItemRepo_Update(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	created, err := repos.Items.Create(ctx, transportFixture(trip.ID, 0))
	require.NoError(t, err)

	created.ConfirmationLink = "https://example.com/booking/42"
	created.Transportation.Mode = "train"
	created.Cost = nil

	updated, err := repos.Items.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/booking/42", updated.ConfirmationLink)
	assert.Equal(t, "train", updated.Transportation.Mode)
	assert.Nil(t, updated.Cost)
	assert.Equal(t, 0, updated.Order, "Update leaves the order alone")
}

func TestItineraryItemRepo_Update_NotFound(t *testing.T) {
	repos := newTestRepos(t)
	trip := mustCreateTrip(t, repos)

	ghost := transportFixture(trip.ID, 0)
	ghost.ID = uuid.New()

	_, err := repos.Items.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryItemRepo_SetOrder_Swap(t *testing.T) {
	tx := testutil.NewTx(t)
	store := repo.NewStore(tx)
	ctx := context.Background()
	trip := mustCreateTrip(t, store.Repos())

	a, err := store.Repos().Items.Create(ctx, transportFixture(trip.ID, 0))
	require.NoError(t, err)
	b, err := store.Repos().Items.Create(ctx, transportFixture(trip.ID, 1))
	require.NoError(t, err)

	err = store.InTx(ctx, func(r repo.Repos) error {
		if err := r.Items.SetOrder(ctx, trip.ID, a.ID, 1); err != nil {
			return err
		}
		return r.Items.SetOrder(ctx, trip.ID, b.ID, 0)
	})
	require.NoError(t, err)

	// Force the deferred uniqueness check now rather than at the rolled-back commit.
	_, err = tx.Exec(ctx, "SET CONSTRAINTS ALL IMMEDIATE")
	require.NoError(t, err)

	got, err := store.Repos().Items.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestItineraryItemRepo_SetOrder_NotFound(t *testing.T) {
	repos := newTestRepos(t)
	trip := mustCreateTrip(t, repos)

	err := repos.Items.SetOrder(context.Background(), trip.ID, uuid.New(), 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryItemRepo_Delete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	created, err := repos.Items.Create(ctx, transportFixture(trip.ID, 0))
	require.NoError(t, err)

	require.NoError(t, repos.Items.Delete(ctx, trip.ID, created.ID))

	err = repos.Items.Delete(ctx, trip.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
