package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/handler"
	"github.com/pkordes/itinerary/internal/service"
)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks: the mock and the real service satisfy handler.ExportServicer.
var (
	_ handler.ExportServicer = (*mockExportServicer)(nil)
	_ handler.ExportServicer = (*service.ExportService)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newExportHTTPHandler wires a Server with only the export service mock.
func newExportHTTPHandler(exportSvc handler.ExportServicer) http.Handler {
	return handler.NewServer(nil, exportSvc, nil).Handler()
}

func exportReturning(rows ...domain.ExportRow) *mockExportServicer {
	return &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) { return rows, nil },
	}
}

// exportRowFixture returns a fully-populated domain.ExportRow for testing.
func exportRowFixture() domain.ExportRow {
	lat, lng := 34.9948, 135.785
	return domain.ExportRow{
		TripID:        "t-1",
		TripName:      "Kyoto Spring",
		TripStartDate: "2024-04-01",
		DayIndex:      0,
		DayDate:       "2024-04-01",
		LocationID:    "l-1",
		LocationName:  "Kiyomizu-dera",
		Address:       "1-294 Kiyomizu, Higashiyama",
		Latitude:      &lat,
		Longitude:     &lng,
	}
}

// ---- GET /export (JSON) ----------------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	rec := serve(newExportHTTPHandler(exportReturning()), http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetExport_JSON_Row(t *testing.T) {
	rec := serve(newExportHTTPHandler(exportReturning(exportRowFixture())), http.MethodGet, "/export?format=json", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"trip_id": "t-1",
		"trip_name": "Kyoto Spring",
		"trip_start_date": "2024-04-01",
		"day_index": 0,
		"day_date": "2024-04-01",
		"location_id": "l-1",
		"location_name": "Kiyomizu-dera",
		"address": "1-294 Kiyomizu, Higashiyama",
		"latitude": 34.9948,
		"longitude": 135.785
	}]`, rec.Body.String())
}

func TestGetExport_JSON_TripWithNoLocations_OmitsDayFields(t *testing.T) {
	row := domain.ExportRow{TripID: "t-2", TripName: "Someday", DayIndex: -1}

	rec := serve(newExportHTTPHandler(exportReturning(row)), http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "day_index")
	assert.NotContains(t, rows[0], "latitude")
}

// ---- GET /export?format=csv ------------------------------------------------

func TestGetExport_CSV(t *testing.T) {
	empty := domain.ExportRow{TripID: "t-2", TripName: "Someday", DayIndex: -1}

	rec := serve(newExportHTTPHandler(exportReturning(exportRowFixture(), empty)), http.MethodGet, "/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trips.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"trip_id", "trip_name", "trip_start_date",
		"day_index", "day_date",
		"location_id", "location_name", "address", "latitude", "longitude",
	}, records[0])
	assert.Equal(t, []string{
		"t-1", "Kyoto Spring", "2024-04-01", "0", "2024-04-01",
		"l-1", "Kiyomizu-dera", "1-294 Kiyomizu, Higashiyama", "34.9948", "135.785",
	}, records[1])
	assert.Equal(t, []string{"t-2", "Someday", "", "", "", "", "", "", "", ""}, records[2])
}

func TestGetExport_400_UnknownFormat(t *testing.T) {
	rec := serve(newExportHTTPHandler(exportReturning()), http.MethodGet, "/export?format=xml", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExport_500(t *testing.T) {
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) { return nil, errors.New("boom") },
	}

	rec := serve(newExportHTTPHandler(svc), http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
}
