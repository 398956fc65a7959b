// Package service contains the business logic for the itinerary API.
// Services validate inputs and turn the trip store's boolean results into
// typed errors. No storage code lives here; services depend on interfaces.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pkordes/itinerary/internal/domain"
)

// TripStore is the persistence surface TripService needs.
// *repo.TripStore satisfies it.
type TripStore interface {
	GetAllTrips(ctx context.Context) []domain.Trip
	GetTripByID(ctx context.Context, id string) (domain.Trip, bool)
	AddTrip(ctx context.Context, trip *domain.Trip) bool
	UpdateTrip(ctx context.Context, trip domain.Trip) bool
	DeleteTrip(ctx context.Context, id string) bool
	AddLocationToTripDay(ctx context.Context, tripID string, dayIndex int, loc domain.Location) bool
	RemoveLocationFromTripDay(ctx context.Context, tripID string, dayIndex int, locationID string) bool
}

// TripService implements business logic for trips and their day locations.
type TripService struct {
	store TripStore
}

// NewTripService constructs a TripService backed by the provided store.
func NewTripService(store TripStore) *TripService {
	return &TripService{store: store}
}

// Create validates and persists a new trip. The returned trip carries the
// ID assigned by the store.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.Name = strings.TrimSpace(trip.Name)
	if !s.store.AddTrip(ctx, &trip) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrStorage)
	}
	return trip, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if no trip has that ID.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	trip, ok := s.store.GetTripByID(ctx, id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// List returns all trips in stored order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips := s.store.GetAllTrips(ctx)
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips plus the total number of trips.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	start, end := p.Window(len(trips))
	return trips[start:end], int64(len(trips)), nil
}

// Update validates and replaces an existing trip wholesale.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.Name = strings.TrimSpace(trip.Name)
	if !s.store.UpdateTrip(ctx, trip) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", s.failure(ctx, trip.ID))
	}
	return trip, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if !s.store.DeleteTrip(ctx, id) {
		return fmt.Errorf("service.TripService.Delete: %w", s.failure(ctx, id))
	}
	return nil
}

// AddLocation appends loc to day dayIndex of the trip, creating the day if
// needed, and returns the day as stored.
// Returns domain.ErrValidation for a negative day index, a blank name,
// coordinates out of range, or a trip whose start date cannot date a new day.
func (s *TripService) AddLocation(ctx context.Context, tripID string, dayIndex int, loc domain.Location) (domain.Day, error) {
	if dayIndex < 0 {
		return domain.Day{}, fmt.Errorf("%w: day index must not be negative", domain.ErrValidation)
	}
	if err := validateLocation(loc); err != nil {
		return domain.Day{}, err
	}

	trip, ok := s.store.GetTripByID(ctx, tripID)
	if !ok {
		return domain.Day{}, fmt.Errorf("service.TripService.AddLocation: %w", domain.ErrNotFound)
	}
	if trip.DayAt(dayIndex) == nil {
		if _, err := domain.DayDate(trip.StartDate, dayIndex); err != nil {
			return domain.Day{}, fmt.Errorf("%w: trip start date %q cannot date day %d", domain.ErrValidation, trip.StartDate, dayIndex)
		}
	}

	loc.Name = strings.TrimSpace(loc.Name)
	if !s.store.AddLocationToTripDay(ctx, tripID, dayIndex, loc) {
		return domain.Day{}, fmt.Errorf("service.TripService.AddLocation: %w", s.failure(ctx, tripID))
	}

	trip, ok = s.store.GetTripByID(ctx, tripID)
	if !ok || trip.DayAt(dayIndex) == nil {
		return domain.Day{}, fmt.Errorf("service.TripService.AddLocation: %w", domain.ErrStorage)
	}
	return *trip.DayAt(dayIndex), nil
}

// RemoveLocation drops the location from day dayIndex of the trip.
// Returns domain.ErrNotFound when the trip or the day does not exist. Removing
// an ID the day does not hold succeeds.
func (s *TripService) RemoveLocation(ctx context.Context, tripID string, dayIndex int, locationID string) error {
	trip, ok := s.store.GetTripByID(ctx, tripID)
	if !ok || trip.DayAt(dayIndex) == nil {
		return fmt.Errorf("service.TripService.RemoveLocation: %w", domain.ErrNotFound)
	}
	if !s.store.RemoveLocationFromTripDay(ctx, tripID, dayIndex, locationID) {
		return fmt.Errorf("service.TripService.RemoveLocation: %w", domain.ErrStorage)
	}
	return nil
}

// failure classifies a false store result: the trip is gone, or the write failed.
func (s *TripService) failure(ctx context.Context, tripID string) error {
	if _, ok := s.store.GetTripByID(ctx, tripID); !ok {
		return domain.ErrNotFound
	}
	return domain.ErrStorage
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - StartDate must be an ISO date (YYYY-MM-DD) or RFC 3339 timestamp.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.StartDate == "" {
		return fmt.Errorf("%w: startDate is required", domain.ErrValidation)
	}
	if _, err := domain.DayDate(trip.StartDate, 0); err != nil {
		return fmt.Errorf("%w: startDate must be YYYY-MM-DD", domain.ErrValidation)
	}
	return nil
}

func validateLocation(loc domain.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: location name is required", domain.ErrValidation)
	}
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f is outside valid range [-90, 90]", domain.ErrValidation, loc.Latitude)
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f is outside valid range [-180, 180]", domain.ErrValidation, loc.Longitude)
	}
	return nil
}
