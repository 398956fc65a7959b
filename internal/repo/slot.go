// Package repo contains all storage access logic for the itinerary application.
// A SlotRepo is a key-value store of named slots; TripStore keeps the whole
// trip collection as one JSON document in a single slot.
// No business validation lives here, only storage and encoding.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/itinerary/internal/domain"
)

// DefaultTripKey is the slot the trip collection is stored under.
const DefaultTripKey = "trip_data"

// SlotRepo defines the storage operations on named slots.
// TripStore depends on this interface, not on a concrete backend, which allows
// it to run against memory in tests and SQLite, Postgres or Redis in production.
type SlotRepo interface {
	// Get returns the contents of the slot named key.
	// Returns domain.ErrNotFound if the slot has never been written.
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the contents of the slot named key, creating it if needed.
	Set(ctx context.Context, key, value string) error
}

// memorySlotRepo is a process-local SlotRepo.
type memorySlotRepo struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotRepo returns an empty in-memory SlotRepo.
// Contents are lost when the process exits.
func NewMemorySlotRepo() SlotRepo {
	return &memorySlotRepo{slots: make(map[string]string)}
}

func (r *memorySlotRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.slots[key]
	if !ok {
		return "", fmt.Errorf("repo.MemorySlotRepo.Get: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (r *memorySlotRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = value
	return nil
}
