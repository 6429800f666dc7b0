package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles the per-resource repositories that share one connection or
// transaction.
type Repos struct {
	Trips        TripRepo
	Destinations DestinationRepo
	Items        ItineraryItemRepo
}

// Store hands out repositories and runs groups of writes atomically.
type Store interface {
	// Repos returns repositories that run each statement on its own.
	Repos() Repos

	// InTx calls fn with repositories bound to a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Repos) error) error
}

// beginner is a db that can also start a transaction. *pgxpool.Pool satisfies
// it, and so does pgx.Tx (nested transactions become savepoints).
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgStore struct {
	db beginner
}

// NewStore constructs a Store backed by the provided pool or transaction.
func NewStore(db beginner) Store {
	return &pgStore{db: db}
}

func newRepos(db db) Repos {
	return Repos{
		Trips:        NewTripRepo(db),
		Destinations: NewDestinationRepo(db),
		Items:        NewItineraryItemRepo(db),
	}
}

func (s *pgStore) Repos() Repos {
	return newRepos(s.db)
}

func (s *pgStore) InTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(newRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	return nil
}
