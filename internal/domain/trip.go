// Package domain contains the core data types for the itinerary application.
// This package depends only on the standard library and is imported by every
// other internal package (repo, service, geo, handler).
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO date-only layout used for Trip.StartDate and Day.Date.
const DateLayout = "2006-01-02"

// Trip is a named itinerary with a start date and an ordered set of days.
// The whole collection of trips is persisted as one JSON document.
//
// Days is sparse: Days[i] holds day offset i from StartDate and may be nil
// until a location is first added to that day. Keys the application does not
// model are kept in Extra and written back untouched.
type Trip struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	Days      []*Day `json:"days,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Day is one calendar day within a trip.
// Date is derived from the trip's StartDate when the day is first created and
// is not recomputed if StartDate later changes.
type Day struct {
	DayIndex  int        `json:"dayIndex"`
	Date      string     `json:"date"`
	Locations []Location `json:"locations"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Location is a point of interest attached to a specific day.
// ID is unique among the locations of its day.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Extra map[string]json.RawMessage `json:"-"`
}

var (
	tripKeys     = []string{"id", "name", "startDate", "days"}
	dayKeys      = []string{"dayIndex", "date", "locations"}
	locationKeys = []string{"id", "name", "address", "latitude", "longitude"}
)

// The *Fields types drop the custom JSON methods so the default encoder can
// be reused for the modelled keys.
type (
	tripFields     Trip
	dayFields      Day
	locationFields Location
)

// MarshalJSON encodes the modelled fields and merges Extra back in.
func (t Trip) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(tripFields(t), t.Extra, tripKeys)
}

// UnmarshalJSON decodes the modelled fields and keeps every other key in Extra.
func (t *Trip) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var f tripFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data, tripKeys)
	if err != nil {
		return err
	}
	*t = Trip(f)
	t.Extra = extra
	return nil
}

// MarshalJSON encodes the modelled fields and merges Extra back in.
func (d Day) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(dayFields(d), d.Extra, dayKeys)
}

// UnmarshalJSON decodes the modelled fields and keeps every other key in Extra.
func (d *Day) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var f dayFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data, dayKeys)
	if err != nil {
		return err
	}
	*d = Day(f)
	d.Extra = extra
	return nil
}

// MarshalJSON encodes the modelled fields and merges Extra back in.
func (l Location) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(locationFields(l), l.Extra, locationKeys)
}

// UnmarshalJSON decodes the modelled fields and keeps every other key in Extra.
func (l *Location) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var f locationFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	extra, err := splitExtra(data, locationKeys)
	if err != nil {
		return err
	}
	*l = Location(f)
	l.Extra = extra
	return nil
}

// DayAt returns the day at dayIndex, or nil when the index is out of range
// or the slot has never been populated.
func (t Trip) DayAt(dayIndex int) *Day {
	if dayIndex < 0 || dayIndex >= len(t.Days) {
		return nil
	}
	return t.Days[dayIndex]
}

// DayDate returns the ISO date that lies dayIndex days after startDate.
// startDate may be a date ("2024-05-01") or an RFC 3339 timestamp; timestamps
// are converted to UTC before the date is taken.
func DayDate(startDate string, dayIndex int) (string, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, startDate)
		if tsErr != nil {
			return "", fmt.Errorf("domain.DayDate: invalid start date %q: %w", startDate, err)
		}
		start = ts.UTC()
	}
	return start.AddDate(0, 0, dayIndex).Format(DateLayout), nil
}
