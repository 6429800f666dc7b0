package handler

import (
	"net/http"
)

// ListItinerary handles GET /trips/{tripID}/itinerary.
func (s *Server) ListItinerary(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	items, err := s.items.List(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

// CreateItineraryItem handles POST /trips/{tripID}/itinerary.
func (s *Server) CreateItineraryItem(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	var body CreateItineraryItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}

	created, err := s.items.Create(r.Context(), userID, tripID, requestToItem(body), body.Position)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(created))
}

// UpdateItineraryItem handles PATCH /trips/{tripID}/itinerary/{itemID}.
func (s *Server) UpdateItineraryItem(w http.ResponseWriter, r *http.Request) {
	userID, tripID, itemID, err := itemParams(r)
	if err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	var body UpdateItineraryItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}

	updated, err := s.items.Update(r.Context(), userID, tripID, itemID, requestToItemPatch(body))
	if err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(updated))
}

// MoveItineraryItem handles POST /trips/{tripID}/itinerary/{itemID}/move and
// returns the reordered itinerary.
func (s *Server) MoveItineraryItem(w http.ResponseWriter, r *http.Request) {
	userID, tripID, itemID, err := itemParams(r)
	if err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	var body MoveItineraryItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	if body.To == nil {
		writeError(w, r, badRequest("missing required field(s): [to]"), "itinerary item")
		return
	}

	items, err := s.items.Move(r.Context(), userID, tripID, itemID, *body.To)
	if err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

// DeleteItineraryItem handles DELETE /trips/{tripID}/itinerary/{itemID}.
func (s *Server) DeleteItineraryItem(w http.ResponseWriter, r *http.Request) {
	userID, tripID, itemID, err := itemParams(r)
	if err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	if err := s.items.Delete(r.Context(), userID, tripID, itemID); err != nil {
		writeError(w, r, err, "itinerary item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
