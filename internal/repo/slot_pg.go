package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/itinerary/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx and
// pgxmock pools. Accepting it instead of *pgxpool.Pool lets integration tests
// pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgSlotRepo is the Postgres implementation of SlotRepo.
// Slots live in the storage_slots table created by the migrations package.
type pgSlotRepo struct {
	db db
}

// NewPGSlotRepo constructs a SlotRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewPGSlotRepo(db db) SlotRepo {
	return &pgSlotRepo{db: db}
}

// Get reads one slot by key.
func (r *pgSlotRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `
		SELECT slot_value
		FROM storage_slots
		WHERE slot_key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.PGSlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.PGSlotRepo.Get: %w", err)
	}
	return value, nil
}

// Set upserts one slot. The DO UPDATE branch replaces the whole value.
func (r *pgSlotRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO storage_slots (slot_key, slot_value, updated_at)
		VALUES (@key, @value, now())
		ON CONFLICT (slot_key) DO UPDATE
		SET slot_value = EXCLUDED.slot_value,
		    updated_at = now()`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value})
	if err != nil {
		return fmt.Errorf("repo.PGSlotRepo.Set: %w", err)
	}
	return nil
}
