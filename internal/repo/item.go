package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// ItineraryItemRepo defines the persistence operations for itinerary items.
// Every operation is scoped by tripID to enforce ownership.
type ItineraryItemRepo interface {
	// Create inserts a new item with the Order it carries and returns the persisted record.
	Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// GetByID retrieves one item of a trip.
	// Returns domain.ErrNotFound if no item with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.ItineraryItem, error)

	// ListByTripID returns all items of a trip ordered by sort_order ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error)

	// Update overwrites the content fields of an item. Kind and Order are not changed.
	Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// SetOrder moves an item to a new sort_order. Uniqueness of (trip_id, sort_order)
	// is checked at commit, so callers reindexing several items must do so in one transaction.
	SetOrder(ctx context.Context, tripID, itemID uuid.UUID, order int) error

	// Delete removes an item. Remaining orders are not touched.
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// pgItineraryItemRepo is the Postgres implementation of ItineraryItemRepo.
type pgItineraryItemRepo struct {
	db db
}

// NewItineraryItemRepo constructs an ItineraryItemRepo backed by the provided db connection.
func NewItineraryItemRepo(db db) ItineraryItemRepo {
	return &pgItineraryItemRepo{db: db}
}

const itemColumns = `
	id, trip_id, kind, sort_order, description, confirmation_link, cost,
	transportation_mode, depart_city, arrive_city, depart_time, arrive_time,
	lodging_name, lodging_address, checkin_time, checkout_time,
	activity_name, activity_address, activity_description, start_time, duration_minutes,
	created_at, updated_at`

func (r *pgItineraryItemRepo) Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (
			trip_id, kind, sort_order, description, confirmation_link, cost,
			transportation_mode, depart_city, arrive_city, depart_time, arrive_time,
			lodging_name, lodging_address, checkin_time, checkout_time,
			activity_name, activity_address, activity_description, start_time, duration_minutes)
		VALUES (
			@trip_id, @kind, @sort_order, @description, @confirmation_link, @cost,
			@transportation_mode, @depart_city, @arrive_city, @depart_time, @arrive_time,
			@lodging_name, @lodging_address, @checkin_time, @checkout_time,
			@activity_name, @activity_address, @activity_description, @start_time, @duration_minutes)
		RETURNING ` + itemColumns

	args := itemArgs(item)
	args["trip_id"] = item.TripID
	args["kind"] = string(item.Kind)
	args["sort_order"] = item.Order

	created, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryItemRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgItineraryItemRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.ItineraryItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM itinerary_items WHERE trip_id = @trip_id AND id = @id`

	item, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": itemID}))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryItemRepo.GetByID: %w", err)
	}
	return item, nil
}

func (r *pgItineraryItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryItem, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM itinerary_items
		WHERE trip_id = @trip_id
		ORDER BY sort_order ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryItemRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var items []domain.ItineraryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryItemRepo.ListByTripID: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryItemRepo.ListByTripID: rows: %w", err)
	}
	return items, nil
}

func (r *pgItineraryItemRepo) Update(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		UPDATE itinerary_items
		SET description          = @description,
		    confirmation_link    = @confirmation_link,
		    cost                 = @cost,
		    transportation_mode  = @transportation_mode,
		    depart_city          = @depart_city,
		    arrive_city          = @arrive_city,
		    depart_time          = @depart_time,
		    arrive_time          = @arrive_time,
		    lodging_name         = @lodging_name,
		    lodging_address      = @lodging_address,
		    checkin_time         = @checkin_time,
		    checkout_time        = @checkout_time,
		    activity_name        = @activity_name,
		    activity_address     = @activity_address,
		    activity_description = @activity_description,
		    start_time           = @start_time,
		    duration_minutes     = @duration_minutes,
		    updated_at           = now()
		WHERE trip_id = @trip_id AND id = @id
		RETURNING ` + itemColumns

	args := itemArgs(item)
	args["trip_id"] = item.TripID
	args["id"] = item.ID

	updated, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryItemRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgItineraryItemRepo) SetOrder(ctx context.Context, tripID, itemID uuid.UUID, order int) error {
	const q = `
		UPDATE itinerary_items
		SET sort_order = @sort_order, updated_at = now()
		WHERE trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": itemID, "sort_order": order})
	if err != nil {
		return fmt.Errorf("repo.ItineraryItemRepo.SetOrder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryItemRepo.SetOrder: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgItineraryItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM itinerary_items WHERE trip_id = @trip_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "id": itemID})
	if err != nil {
		return fmt.Errorf("repo.ItineraryItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// itemArgs flattens the content fields of an item into named arguments.
// Columns of the variants the item is not are written as NULL.
func itemArgs(item domain.ItineraryItem) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"description":          item.Description,
		"confirmation_link":    item.ConfirmationLink,
		"cost":                 item.Cost,
		"transportation_mode":  nil,
		"depart_city":          nil,
		"arrive_city":          nil,
		"depart_time":          nil,
		"arrive_time":          nil,
		"lodging_name":         nil,
		"lodging_address":      nil,
		"checkin_time":         nil,
		"checkout_time":        nil,
		"activity_name":        nil,
		"activity_address":     nil,
		"activity_description": nil,
		"start_time":           nil,
		"duration_minutes":     nil,
	}
	if t := item.Transportation; t != nil {
		args["transportation_mode"] = t.Mode
		args["depart_city"] = t.DepartCity
		args["arrive_city"] = t.ArriveCity
		args["depart_time"] = t.DepartTime
		args["arrive_time"] = t.ArriveTime
	}
	if l := item.Lodging; l != nil {
		args["lodging_name"] = l.Name
		args["lodging_address"] = l.Address
		args["checkin_time"] = l.CheckinTime
		args["checkout_time"] = l.CheckoutTime
	}
	if a := item.Activity; a != nil {
		args["activity_name"] = a.Name
		args["activity_address"] = a.Address
		args["activity_description"] = a.Description
		args["start_time"] = a.StartTime
		args["duration_minutes"] = a.DurationMinutes
	}
	return args
}

// scanItem maps a single row into a domain.ItineraryItem, populating only the
// variant that matches the kind column.
func scanItem(s scanner) (domain.ItineraryItem, error) {
	var (
		it     domain.ItineraryItem
		id     pgtype.UUID
		tripID pgtype.UUID
		kind   string

		mode, departCity, arriveCity pgtype.Text
		departTime, arriveTime       *time.Time
		lodgingName, lodgingAddress  pgtype.Text
		checkin, checkout            *time.Time
		actName, actAddress, actDesc pgtype.Text
		startTime                    *time.Time
		duration                     *int
	)

	err := s.Scan(
		&id, &tripID, &kind, &it.Order, &it.Description, &it.ConfirmationLink, &it.Cost,
		&mode, &departCity, &arriveCity, &departTime, &arriveTime,
		&lodgingName, &lodgingAddress, &checkin, &checkout,
		&actName, &actAddress, &actDesc, &startTime, &duration,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, domain.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	it.Kind = domain.ItemKind(kind)

	switch it.Kind {
	case domain.KindTransportation:
		it.Transportation = &domain.Transportation{
			Mode:       mode.String,
			DepartCity: departCity.String,
			ArriveCity: arriveCity.String,
			DepartTime: departTime,
			ArriveTime: arriveTime,
		}
	case domain.KindLodging:
		it.Lodging = &domain.Lodging{
			Name:         lodgingName.String,
			Address:      lodgingAddress.String,
			CheckinTime:  checkin,
			CheckoutTime: checkout,
		}
	case domain.KindActivity:
		it.Activity = &domain.Activity{
			Name:            actName.String,
			Address:         actAddress.String,
			Description:     actDesc.String,
			StartTime:       startTime,
			DurationMinutes: duration,
		}
	}
	return it, nil
}
