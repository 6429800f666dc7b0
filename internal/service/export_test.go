package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/service"
)

func TestExportService_Export_OneRowPerItem(t *testing.T) {
	store := newFakeStore()
	trip := createTrip(t, store)

	rows, err := service.NewExportService(store).Export(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, i, row.Order)
		assert.Equal(t, trip.ID.String(), row.TripID)
		assert.Equal(t, "Japan", row.TripTitle)
		assert.Equal(t, "2025-04-01", row.TripStartDate)
		assert.Equal(t, "2025-04-10", row.TripEndDate)
		assert.Equal(t, "Seattle", row.HomeCity)
	}

	outbound := rows[0]
	assert.Equal(t, "transportation", outbound.Kind)
	assert.Equal(t, "Seattle to Tokyo", outbound.Title)
	assert.Equal(t, "Tokyo", outbound.Location)
	require.NotNil(t, outbound.StartsAt)
	assert.Equal(t, time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC), *outbound.StartsAt)

	lodging := rows[1]
	assert.Equal(t, "lodging", lodging.Kind)
	assert.Equal(t, "Hotel in Tokyo", lodging.Title)
	assert.Equal(t, "Accommodation in Tokyo", lodging.Description)
	require.NotNil(t, lodging.EndsAt)
	assert.Equal(t, time.Date(2025, 4, 4, 11, 0, 0, 0, time.UTC), *lodging.EndsAt)
}

func TestExportService_Export_ActivityEndsAfterDuration(t *testing.T) {
	store := newFakeStore()
	trip := createTrip(t, store)
	start := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	minutes := 90
	_, err := newItineraryService(store).Create(context.Background(), owner, trip.ID, domain.ItineraryItem{
		Kind: domain.KindActivity,
		Activity: &domain.Activity{
			Name:            "Tsukiji",
			Address:         "Chuo",
			StartTime:       &start,
			DurationMinutes: &minutes,
		},
	}, nil)
	require.NoError(t, err)

	rows, err := service.NewExportService(store).Export(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, "Tsukiji", last.Title)
	assert.Equal(t, "Chuo", last.Location)
	require.NotNil(t, last.EndsAt)
	assert.Equal(t, start.Add(90*time.Minute), *last.EndsAt)
}

func TestExportService_Export_OtherUsersTrip(t *testing.T) {
	store := newFakeStore()
	trip := createTrip(t, store)

	_, err := service.NewExportService(store).Export(context.Background(), "intruder", trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExportService_Export_NotFound(t *testing.T) {
	_, err := service.NewExportService(newFakeStore()).Export(context.Background(), owner, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
