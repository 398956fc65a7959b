package service

import (
	"context"

	"github.com/pkordes/itinerary/internal/domain"
)

// ExportService assembles a flat export of all trips, days and locations.
type ExportService struct {
	store TripStore
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store TripStore) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per location across all trips, in stored order.
// A trip with no locations contributes one row with empty day and location
// fields (DayIndex -1). Holes in a trip's day list are skipped.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	rows := []domain.ExportRow{}
	for _, trip := range s.store.GetAllTrips(ctx) {
		before := len(rows)
		for _, day := range trip.Days {
			if day == nil {
				continue
			}
			for _, loc := range day.Locations {
				lat, lng := loc.Latitude, loc.Longitude
				rows = append(rows, domain.ExportRow{
					TripID:        trip.ID,
					TripName:      trip.Name,
					TripStartDate: trip.StartDate,
					DayIndex:      day.DayIndex,
					DayDate:       day.Date,
					LocationID:    loc.ID,
					LocationName:  loc.Name,
					Address:       loc.Address,
					Latitude:      &lat,
					Longitude:     &lng,
				})
			}
		}
		if len(rows) == before {
			rows = append(rows, domain.ExportRow{
				TripID:        trip.ID,
				TripName:      trip.Name,
				TripStartDate: trip.StartDate,
				DayIndex:      -1,
			})
		}
	}
	return rows, nil
}
