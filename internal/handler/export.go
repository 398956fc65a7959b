// export.go implements GET /export.
// Returns all trips, days and locations as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).

package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/pkordes/itinerary/internal/domain"
)

// exportRow is the JSON shape of one export row. Day and location fields are
// omitted for trips without locations.
type exportRow struct {
	TripID        string   `json:"trip_id"`
	TripName      string   `json:"trip_name"`
	TripStartDate string   `json:"trip_start_date,omitempty"`
	DayIndex      *int     `json:"day_index,omitempty"`
	DayDate       string   `json:"day_date,omitempty"`
	LocationID    string   `json:"location_id,omitempty"`
	LocationName  string   `json:"location_name,omitempty"`
	Address       string   `json:"address,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// GetExport handles GET /export.
// It returns one row per location across every trip.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be json or csv"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "export not found")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

func buildJSONRows(rows []domain.ExportRow) []exportRow {
	out := make([]exportRow, 0, len(rows))
	for _, r := range rows {
		row := exportRow{
			TripID:        r.TripID,
			TripName:      r.TripName,
			TripStartDate: r.TripStartDate,
			DayDate:       r.DayDate,
			LocationID:    r.LocationID,
			LocationName:  r.LocationName,
			Address:       r.Address,
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
		}
		if r.DayIndex >= 0 {
			idx := r.DayIndex
			row.DayIndex = &idx
		}
		out = append(out, row)
	}
	return out
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	// bytes.Buffer.Write never returns an error.
	_ = domain.WriteExportCSV(&buf, rows)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
