package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
)

// ExportService flattens a trip's itinerary for download.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided Store.
func NewExportService(store repo.Store) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per itinerary item, in itinerary order.
// A trip with no items yields an empty, non-nil slice.
func (s *ExportService) Export(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error) {
	r := s.store.Repos()
	trip, err := ownedTrip(ctx, r, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	items, err := r.Items.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, exportRow(trip, it))
	}
	return rows, nil
}

func exportRow(trip domain.Trip, it domain.ItineraryItem) domain.ExportRow {
	row := domain.ExportRow{
		TripID:        trip.ID.String(),
		TripTitle:     trip.Title,
		TripStartDate: trip.StartDate.Format(time.DateOnly),
		TripEndDate:   trip.EndDate.Format(time.DateOnly),
		HomeCity:      trip.HomeCity,
		Order:         it.Order,
		Kind:          string(it.Kind),
		Description:   it.Description,
		Cost:          it.Cost,
	}
	switch {
	case it.Transportation != nil:
		t := it.Transportation
		row.Title = t.DepartCity + " to " + t.ArriveCity
		row.Location = t.ArriveCity
		row.StartsAt, row.EndsAt = t.DepartTime, t.ArriveTime
	case it.Lodging != nil:
		l := it.Lodging
		row.Title = l.Name
		row.Location = l.Address
		row.StartsAt, row.EndsAt = l.CheckinTime, l.CheckoutTime
	case it.Activity != nil:
		a := it.Activity
		row.Title = a.Name
		row.Location = a.Address
		row.StartsAt = a.StartTime
		if a.StartTime != nil && a.DurationMinutes != nil {
			end := a.StartTime.Add(time.Duration(*a.DurationMinutes) * time.Minute)
			row.EndsAt = &end
		}
	}
	return row
}
