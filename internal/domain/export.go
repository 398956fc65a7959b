package domain

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per location, with trip and day
// fields repeated for every location. Trips with no locations yield one row
// with zero values for all day and location fields.
type ExportRow struct {
	// Trip fields, repeated for every location on the trip.
	TripID        string `json:"trip_id"`
	TripName      string `json:"trip_name"`
	TripStartDate string `json:"trip_start_date"`

	// Day fields. DayIndex is -1 when the trip has no locations.
	DayIndex int    `json:"day_index"`
	DayDate  string `json:"day_date,omitempty"`

	// Location fields, zero values when the trip has no locations.
	LocationID   string   `json:"location_id,omitempty"`
	LocationName string   `json:"location_name,omitempty"`
	Address      string   `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// ExportCSVHeader is the header line of a CSV export.
var ExportCSVHeader = []string{
	"trip_id", "trip_name", "trip_start_date",
	"day_index", "day_date",
	"location_id", "location_name", "address", "latitude", "longitude",
}

// CSVRecord encodes the row in ExportCSVHeader column order.
// An absent day index and absent coordinates are encoded as empty strings.
func (r ExportRow) CSVRecord() []string {
	dayIndex := ""
	if r.DayIndex >= 0 {
		dayIndex = strconv.Itoa(r.DayIndex)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStartDate,
		dayIndex,
		r.DayDate,
		r.LocationID,
		r.LocationName,
		r.Address,
		formatOptionalFloat(r.Latitude),
		formatOptionalFloat(r.Longitude),
	}
}

// WriteExportCSV writes the header and one record per row to w.
func WriteExportCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.CSVRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatOptionalFloat returns the shortest representation of f, or "" if f is nil.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
