package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/metrics"
)

// TripStore keeps the trip collection as a single JSON array in one slot.
//
// Every operation re-reads the slot and every mutation rewrites the whole
// collection; nothing is cached between calls. Storage and encoding failures
// are logged and reported as an empty result or false, never returned.
//
// Mutations are serialized by an in-process mutex. Writers in other processes
// sharing the same slot are not coordinated: the last full write wins.
type TripStore struct {
	slots   SlotRepo
	key     string
	log     *slog.Logger
	newID   func() string
	metrics *metrics.Metrics

	mu sync.Mutex
}

// StoreOption configures a TripStore.
type StoreOption func(*TripStore)

// WithKey sets the slot name the collection is stored under.
func WithKey(key string) StoreOption {
	return func(s *TripStore) { s.key = key }
}

// WithLogger sets the logger used to report storage failures.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *TripStore) { s.log = log }
}

// WithIDFunc replaces the identifier generator used for trips and locations.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *TripStore) { s.newID = fn }
}

// WithMetrics records per-operation outcomes on m.
func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *TripStore) { s.metrics = m }
}

// NewTripStore constructs a TripStore over slots.
// Defaults: key DefaultTripKey, slog.Default(), UUIDv7 identifiers.
func NewTripStore(slots SlotRepo, opts ...StoreOption) *TripStore {
	s := &TripStore{
		slots: slots,
		key:   DefaultTripKey,
		log:   slog.Default(),
		newID: newTimeOrderedID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7 string: millisecond timestamp prefix plus
// random bits, so ids sort by creation time and do not collide within a tick.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// GetAllTrips returns every stored trip.
// An absent or empty slot, a read failure or an undecodable document all
// yield an empty, non-nil slice.
func (s *TripStore) GetAllTrips(ctx context.Context) []domain.Trip {
	return s.load(ctx)
}

// SaveAllTrips replaces the stored collection with trips and reports whether
// the write succeeded.
func (s *TripStore) SaveAllTrips(ctx context.Context, trips []domain.Trip) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, "save_all_trips", trips)
}

// GetTripByID returns the first trip whose ID equals id.
func (s *TripStore) GetTripByID(ctx context.Context, id string) (domain.Trip, bool) {
	return findTrip(s.load(ctx), id)
}

// AddTrip assigns a fresh ID to trip, overwriting any ID the caller set,
// appends it to the collection and persists. The assigned ID is visible to
// the caller through the pointer even when the save fails.
func (s *TripStore) AddTrip(ctx context.Context, trip *domain.Trip) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := s.load(ctx)
	trip.ID = s.newID()
	trips = append(trips, *trip)
	return s.save(ctx, "add_trip", trips)
}

// UpdateTrip replaces the stored trip that has trip.ID wholesale.
// Returns false without writing when no such trip exists.
func (s *TripStore) UpdateTrip(ctx context.Context, trip domain.Trip) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, "update_trip", trip)
}

// DeleteTrip removes every trip whose ID equals id.
// Returns false without writing when nothing matched.
func (s *TripStore) DeleteTrip(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := s.load(ctx)
	kept := slices.DeleteFunc(slices.Clone(trips), func(t domain.Trip) bool { return t.ID == id })
	if len(kept) == len(trips) {
		s.metrics.ObserveStore("delete_trip", false)
		return false
	}
	return s.save(ctx, "delete_trip", kept)
}

// AddLocationToTripDay appends a copy of loc, with a freshly assigned ID, to
// day dayIndex of the trip. Missing days are created on demand with their date
// derived from the trip's start date.
//
// Returns false when the trip does not exist, dayIndex is negative, the start
// date cannot be parsed while a new day is needed, or the write fails.
func (s *TripStore) AddLocationToTripDay(ctx context.Context, tripID string, dayIndex int, loc domain.Location) bool {
	const op = "add_location"

	s.mu.Lock()
	defer s.mu.Unlock()

	if dayIndex < 0 {
		s.log.WarnContext(ctx, "trip store: negative day index", "trip_id", tripID, "day_index", dayIndex)
		s.metrics.ObserveStore(op, false)
		return false
	}

	trip, ok := findTrip(s.load(ctx), tripID)
	if !ok {
		s.metrics.ObserveStore(op, false)
		return false
	}

	if trip.DayAt(dayIndex) == nil {
		date, err := domain.DayDate(trip.StartDate, dayIndex)
		if err != nil {
			s.log.ErrorContext(ctx, "trip store: cannot derive day date", "trip_id", tripID, "error", err)
			s.metrics.ObserveStore(op, false)
			return false
		}
		for len(trip.Days) <= dayIndex {
			trip.Days = append(trip.Days, nil)
		}
		trip.Days[dayIndex] = &domain.Day{
			DayIndex:  dayIndex,
			Date:      date,
			Locations: []domain.Location{},
		}
	}

	day := trip.Days[dayIndex]
	loc.ID = s.newID()
	day.Locations = append(day.Locations, loc)

	return s.update(ctx, op, trip)
}

// RemoveLocationFromTripDay drops every location with locationID from day
// dayIndex of the trip and persists the trip. The trip is written even when no
// location matched.
//
// Returns false when the trip, its days or the requested day do not exist.
func (s *TripStore) RemoveLocationFromTripDay(ctx context.Context, tripID string, dayIndex int, locationID string) bool {
	const op = "remove_location"

	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := findTrip(s.load(ctx), tripID)
	if !ok || trip.DayAt(dayIndex) == nil {
		s.metrics.ObserveStore(op, false)
		return false
	}

	day := trip.Days[dayIndex]
	kept := make([]domain.Location, 0, len(day.Locations))
	for _, l := range day.Locations {
		if l.ID != locationID {
			kept = append(kept, l)
		}
	}
	day.Locations = kept

	return s.update(ctx, op, trip)
}

// load reads and decodes the slot. Callers that mutate must hold s.mu.
func (s *TripStore) load(ctx context.Context) []domain.Trip {
	raw, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.ErrorContext(ctx, "trip store: read slot", "key", s.key, "error", err)
		}
		return []domain.Trip{}
	}
	if raw == "" {
		return []domain.Trip{}
	}

	var trips []domain.Trip
	if err := json.Unmarshal([]byte(raw), &trips); err != nil {
		s.log.ErrorContext(ctx, "trip store: decode slot", "key", s.key, "error", err)
		return []domain.Trip{}
	}
	if trips == nil {
		return []domain.Trip{}
	}
	return trips
}

// save encodes and writes the collection. Callers must hold s.mu.
func (s *TripStore) save(ctx context.Context, op string, trips []domain.Trip) bool {
	if trips == nil {
		trips = []domain.Trip{}
	}
	b, err := json.Marshal(trips)
	if err != nil {
		s.log.ErrorContext(ctx, "trip store: encode trips", "op", op, "error", err)
		s.metrics.ObserveStore(op, false)
		return false
	}
	if err := s.slots.Set(ctx, s.key, string(b)); err != nil {
		s.log.ErrorContext(ctx, "trip store: write slot", "op", op, "key", s.key, "error", err)
		s.metrics.ObserveStore(op, false)
		return false
	}
	s.metrics.ObserveStore(op, true)
	s.metrics.SetTripCount(len(trips))
	return true
}

// update replaces the trip with a matching ID and saves. Callers must hold s.mu.
func (s *TripStore) update(ctx context.Context, op string, trip domain.Trip) bool {
	trips := s.load(ctx)
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == trip.ID })
	if i < 0 {
		s.metrics.ObserveStore(op, false)
		return false
	}
	trips[i] = trip
	return s.save(ctx, op, trips)
}

func findTrip(trips []domain.Trip, id string) (domain.Trip, bool) {
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == id })
	if i < 0 {
		return domain.Trip{}, false
	}
	return trips[i], true
}
