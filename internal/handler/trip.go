package handler

import (
	"net/http"
	"strconv"

	"github.com/jicongw/friendly-palm-tree/internal/auth"
	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// CreateTrip handles POST /trips.
// The response carries the generated itinerary.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.MustUserID(r.Context())
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	var body CreateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, "trip")
		return
	}
	in, err := requestToNewTrip(body)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}

	created, err := s.trips.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	w.Header().Set("Location", "/trips/"+created.ID.String())
	writeJSON(w, http.StatusCreated, detailToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.MustUserID(r.Context())
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	page, err := optionalInt(r, "page")
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	trips, total, err := s.trips.List(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: params.TotalPages(total),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	detail, err := s.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, detailToResponse(detail))
}

// UpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	var body UpdateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, "trip")
		return
	}

	updated, err := s.trips.Update(r.Context(), userID, tripID, requestToTripPatch(body))
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, detailToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// optionalInt parses an integer query parameter, returning nil when absent.
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest("query parameter %q must be an integer", name)
	}
	return &n, nil
}
