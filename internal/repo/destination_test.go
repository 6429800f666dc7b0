package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

func TestDestinationRepo_CreateBatch(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	got, err := repos.Destinations.CreateBatch(ctx, trip.ID, []domain.Destination{
		{City: "Tokyo", DaysToStay: domain.Days(4), Order: 0},
		{City: "Kyoto", Order: 1},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, uuid.Nil, got[0].ID)
	assert.Equal(t, trip.ID, got[0].TripID)
	assert.Equal(t, "Tokyo", got[0].City)
	require.NotNil(t, got[0].DaysToStay)
	assert.Equal(t, 4, *got[0].DaysToStay)
	assert.Nil(t, got[1].DaysToStay, "NULL days_to_stay maps to nil")
	assert.Equal(t, 1, got[1].Order)
}

func TestDestinationRepo_CreateBatch_DuplicateOrder(t *testing.T) {
	repos := newTestRepos(t)
	trip := mustCreateTrip(t, repos)

	_, err := repos.Destinations.CreateBatch(context.Background(), trip.ID, []domain.Destination{
		{City: "Tokyo", Order: 0},
		{City: "Kyoto", Order: 0},
	})

	assert.Error(t, err)
}

func TestDestinationRepo_ListByTripID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	// Inserted out of order on purpose.
	_, err := repos.Destinations.CreateBatch(ctx, trip.ID, []domain.Destination{
		{City: "Osaka", Order: 2},
		{City: "Tokyo", DaysToStay: domain.Days(3), Order: 0},
		{City: "Kyoto", DaysToStay: domain.Days(2), Order: 1},
	})
	require.NoError(t, err)

	got, err := repos.Destinations.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Tokyo", "Kyoto", "Osaka"}, []string{got[0].City, got[1].City, got[2].City})
}

func TestDestinationRepo_DeleteByTripID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	_, err := repos.Destinations.CreateBatch(ctx, trip.ID, []domain.Destination{{City: "Tokyo", Order: 0}})
	require.NoError(t, err)

	require.NoError(t, repos.Destinations.DeleteByTripID(ctx, trip.ID))

	got, err := repos.Destinations.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDestinationRepo_CascadeOnTripDelete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, repos)

	_, err := repos.Destinations.CreateBatch(ctx, trip.ID, []domain.Destination{{City: "Tokyo", Order: 0}})
	require.NoError(t, err)
	require.NoError(t, repos.Trips.Delete(ctx, trip.ID))

	got, err := repos.Destinations.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
