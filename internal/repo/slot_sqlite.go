package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/migrations"
)

var sqlitePragmas = []string{
	`PRAGMA journal_mode=WAL`,
	`PRAGMA busy_timeout=5000`,
}

// OpenSQLite opens (creating if necessary) the SQLite file at path, applies
// the connection pragmas and runs all pending migrations.
// Callers own the returned *sql.DB and must close it.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("repo.OpenSQLite: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: create parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %s: %w", p, err)
		}
	}

	if err := Migrate(ctx, goose.DialectSQLite3, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	return db, nil
}

// Migrate applies every pending migration in migrations.FS using dialect.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// sqliteSlotRepo is the SQLite implementation of SlotRepo, used for on-device storage.
type sqliteSlotRepo struct {
	db *sql.DB
}

// NewSQLiteSlotRepo constructs a SlotRepo backed by db.
// The storage_slots table must already exist; OpenSQLite creates it.
func NewSQLiteSlotRepo(db *sql.DB) SlotRepo {
	return &sqliteSlotRepo{db: db}
}

func (r *sqliteSlotRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT slot_value FROM storage_slots WHERE slot_key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("repo.SQLiteSlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SQLiteSlotRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqliteSlotRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO storage_slots (slot_key, slot_value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot_key) DO UPDATE
		SET slot_value = excluded.slot_value,
		    updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.SQLiteSlotRepo.Set: %w", err)
	}
	return nil
}
