package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// DestinationRepo defines the persistence operations for Destinations.
// Destinations are always written as a whole list for one trip.
type DestinationRepo interface {
	// CreateBatch inserts dests under tripID, keeping each Order as given,
	// and returns the persisted records in order.
	CreateBatch(ctx context.Context, tripID uuid.UUID, dests []domain.Destination) ([]domain.Destination, error)

	// ListByTripID returns all destinations of a trip ordered by sort_order ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Destination, error)

	// DeleteByTripID removes every destination of a trip.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) error
}

// pgDestinationRepo is the Postgres implementation of DestinationRepo.
type pgDestinationRepo struct {
	db db
}

// NewDestinationRepo constructs a DestinationRepo backed by the provided db connection.
func NewDestinationRepo(db db) DestinationRepo {
	return &pgDestinationRepo{db: db}
}

const destinationColumns = `id, trip_id, city, days_to_stay, sort_order`

func (r *pgDestinationRepo) CreateBatch(ctx context.Context, tripID uuid.UUID, dests []domain.Destination) ([]domain.Destination, error) {
	const q = `
		INSERT INTO destinations (trip_id, city, days_to_stay, sort_order)
		VALUES (@trip_id, @city, @days_to_stay, @sort_order)
		RETURNING ` + destinationColumns

	out := make([]domain.Destination, 0, len(dests))
	for _, d := range dests {
		args := pgx.NamedArgs{
			"trip_id":      tripID,
			"city":         d.City,
			"days_to_stay": d.DaysToStay, // nil becomes NULL
			"sort_order":   d.Order,
		}
		created, err := scanDestination(r.db.QueryRow(ctx, q, args))
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationRepo.CreateBatch: %w", err)
		}
		out = append(out, created)
	}
	return out, nil
}

func (r *pgDestinationRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Destination, error) {
	const q = `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE trip_id = @trip_id
		ORDER BY sort_order ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var dests []domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationRepo.ListByTripID: scan: %w", err)
		}
		dests = append(dests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.ListByTripID: rows: %w", err)
	}
	return dests, nil
}

func (r *pgDestinationRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) error {
	const q = `DELETE FROM destinations WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.DestinationRepo.DeleteByTripID: %w", err)
	}
	return nil
}

// scanDestination maps a single row into a domain.Destination, converting the
// nullable days_to_stay column into a *int.
func scanDestination(s scanner) (domain.Destination, error) {
	var (
		d      domain.Destination
		id     pgtype.UUID
		tripID pgtype.UUID
		days   pgtype.Int4
	)
	if err := s.Scan(&id, &tripID, &d.City, &days, &d.Order); err != nil {
		return domain.Destination{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	if days.Valid {
		d.DaysToStay = domain.Days(int(days.Int32))
	}
	return d, nil
}
