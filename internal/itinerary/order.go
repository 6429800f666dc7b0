package itinerary

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// The functions below maintain the order space of a trip's itinerary. Each
// takes the current items, never mutates them, and returns a new slice sorted
// and renumbered 0..n-1.

// Reindex sorts items by their current Order (stable) and renumbers them densely.
func Reindex(items []domain.ItineraryItem) []domain.ItineraryItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b domain.ItineraryItem) int {
		return a.Order - b.Order
	})
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Insert places item at position pos, shifting every entry at or after pos
// down by one. pos is clamped to [0, len(items)].
func Insert(items []domain.ItineraryItem, pos int, item domain.ItineraryItem) []domain.ItineraryItem {
	out := Reindex(items)
	pos = min(max(pos, 0), len(out))
	out = slices.Insert(out, pos, item)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Remove deletes the item with the given id and closes the gap it leaves.
func Remove(items []domain.ItineraryItem, id uuid.UUID) ([]domain.ItineraryItem, error) {
	out := Reindex(items)
	idx := slices.IndexFunc(out, func(it domain.ItineraryItem) bool { return it.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("itinerary.Remove: item %s: %w", id, domain.ErrNotFound)
	}
	out = slices.Delete(out, idx, idx+1)
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}

// Move relocates the item with the given id to position to, clamped to
// [0, len(items)-1].
func Move(items []domain.ItineraryItem, id uuid.UUID, to int) ([]domain.ItineraryItem, error) {
	out := Reindex(items)
	idx := slices.IndexFunc(out, func(it domain.ItineraryItem) bool { return it.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("itinerary.Move: item %s: %w", id, domain.ErrNotFound)
	}
	moved := out[idx]
	out = slices.Delete(out, idx, idx+1)
	to = min(max(to, 0), len(out))
	out = slices.Insert(out, to, moved)
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}

// Changed returns the entries of after whose Order differs from the entry with
// the same ID in before. Entries absent from before are not included.
func Changed(before, after []domain.ItineraryItem) []domain.ItineraryItem {
	prev := make(map[uuid.UUID]int, len(before))
	for _, it := range before {
		prev[it.ID] = it.Order
	}
	var out []domain.ItineraryItem
	for _, it := range after {
		if o, ok := prev[it.ID]; ok && o != it.Order {
			out = append(out, it)
		}
	}
	return out
}
