package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date", "home_city",
	"order", "kind", "title", "location", "starts_at", "ends_at",
	"description", "cost",
}

// ExportRow is the JSON form of one export row.
type ExportRow struct {
	TripID        uuid.UUID          `json:"trip_id"`
	TripTitle     string             `json:"trip_title"`
	TripStartDate openapi_types.Date `json:"trip_start_date"`
	TripEndDate   openapi_types.Date `json:"trip_end_date"`
	HomeCity      string             `json:"home_city"`
	Order         int                `json:"order"`
	Kind          string             `json:"kind"`
	Title         string             `json:"title"`
	Location      *string            `json:"location,omitempty"`
	StartsAt      *time.Time         `json:"starts_at,omitempty"`
	EndsAt        *time.Time         `json:"ends_at,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Cost          *float64           `json:"cost,omitempty"`
}

// GetExport handles GET /trips/{tripID}/export.
// It returns one row per itinerary item in order. Use ?format=csv to receive
// CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripParams(r)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeError(w, r, badRequest("format must be csv or json"), "trip")
		return
	}

	rows, err := s.export.Export(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, r, err, "trip")
		return
	}

	if format == "csv" {
		writeCSV(w, "trip-"+tripID.String()+".csv", rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSONRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as an attachment named filename.
func writeCSV(w http.ResponseWriter, filename string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to its JSON form.
// Fields that are empty strings become nil pointers (omitempty in JSON).
func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripID:        tripID,
		TripTitle:     r.TripTitle,
		TripStartDate: mustParseDate(r.TripStartDate),
		TripEndDate:   mustParseDate(r.TripEndDate),
		HomeCity:      r.HomeCity,
		Order:         r.Order,
		Kind:          r.Kind,
		Title:         r.Title,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		Cost:          r.Cost,
	}
	if r.Location != "" {
		row.Location = &r.Location
	}
	if r.Description != "" {
		row.Description = &r.Description
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil times and costs are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	cost := ""
	if r.Cost != nil {
		cost = strconv.FormatFloat(*r.Cost, 'f', 2, 64)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripStartDate,
		r.TripEndDate,
		r.HomeCity,
		strconv.Itoa(r.Order),
		r.Kind,
		r.Title,
		r.Location,
		formatOptionalTime(r.StartsAt),
		formatOptionalTime(r.EndsAt),
		r.Description,
		cost,
	}
}

// mustParseDate parses an "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
