// Package service contains the business logic of the trip planner.
// Services validate inputs, enforce ownership, run the itinerary generator
// and orchestrate repo calls. No SQL lives here: services depend on the
// repo.Store interface, not on Postgres.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/repo"
)

// ownedTrip loads a trip and checks that userID owns it.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrForbidden if it belongs to someone else.
func ownedTrip(ctx context.Context, r repo.Repos, userID string, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := r.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	return checkOwner(trip, userID)
}

// lockOwnedTrip is ownedTrip for use inside Store.InTx: it row-locks the trip
// for the rest of the transaction. Every write to a trip's destinations or
// item orders goes through it, so two such writes on one trip never work
// from the same stale item list.
func lockOwnedTrip(ctx context.Context, r repo.Repos, userID string, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := r.Trips.GetByIDForUpdate(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	return checkOwner(trip, userID)
}

func checkOwner(trip domain.Trip, userID string) (domain.Trip, error) {
	if trip.UserID != userID {
		return domain.Trip{}, fmt.Errorf("trip %s: %w", trip.ID, domain.ErrForbidden)
	}
	return trip, nil
}

// dateOnly drops the time of day and location, keeping the calendar date
// as midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// blank reports whether s is empty or whitespace only.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// nonNil returns s, or an empty slice when s is nil, so JSON encodes [] not null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
