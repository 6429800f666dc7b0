// Package handler implements the HTTP surface of the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, itinerary.go, export.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/auth"
	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID string, in domain.NewTrip) (domain.TripDetail, error)
	Get(ctx context.Context, userID string, tripID uuid.UUID) (domain.TripDetail, error)
	List(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID string, tripID uuid.UUID, patch domain.TripPatch) (domain.TripDetail, error)
	Delete(ctx context.Context, userID string, tripID uuid.UUID) error
}

// ItineraryServicer defines the itinerary editing operations.
type ItineraryServicer interface {
	List(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ItineraryItem, error)
	Create(ctx context.Context, userID string, tripID uuid.UUID, item domain.ItineraryItem, pos *int) (domain.ItineraryItem, error)
	Update(ctx context.Context, userID string, tripID, itemID uuid.UUID, patch domain.ItineraryItemPatch) (domain.ItineraryItem, error)
	Move(ctx context.Context, userID string, tripID, itemID uuid.UUID, to int) ([]domain.ItineraryItem, error)
	Delete(ctx context.Context, userID string, tripID, itemID uuid.UUID) error
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context, userID string, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the services behind every endpoint.
type Server struct {
	trips  TripServicer
	items  ItineraryServicer
	export ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, items ItineraryServicer, export ExportServicer) *Server {
	return &Server{trips: trips, items: items, export: export}
}

// Routes returns the API router. /healthz and /openapi.yaml are public; every
// /trips route requires a user the resolver can authenticate.
func (s *Server) Routes(resolver auth.Resolver) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Use(auth.RequireUser(resolver))

		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/export", s.GetExport)

			r.Get("/itinerary", s.ListItinerary)
			r.Post("/itinerary", s.CreateItineraryItem)
			r.Patch("/itinerary/{itemID}", s.UpdateItineraryItem)
			r.Delete("/itinerary/{itemID}", s.DeleteItineraryItem)
			r.Post("/itinerary/{itemID}/move", s.MoveItineraryItem)
		})
	})
	return r
}

// tripParams reads the authenticated user and the {tripID} path parameter.
// An unparsable id is reported as a missing trip.
func tripParams(r *http.Request) (string, uuid.UUID, error) {
	userID, err := auth.MustUserID(r.Context())
	if err != nil {
		return "", uuid.Nil, err
	}
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		return "", uuid.Nil, domain.ErrNotFound
	}
	return userID, tripID, nil
}

// itemParams is tripParams plus the {itemID} path parameter.
func itemParams(r *http.Request) (string, uuid.UUID, uuid.UUID, error) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		return "", uuid.Nil, uuid.Nil, err
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		return "", uuid.Nil, uuid.Nil, domain.ErrNotFound
	}
	return userID, tripID, itemID, nil
}
