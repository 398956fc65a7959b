// Package cli implements the tripctl command tree, which edits a trip
// document stored in a local SQLite file without going through the API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/internal/repo"
	"github.com/pkordes/itinerary/internal/service"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// commandDeps is shared by every subcommand. dbPath is bound to the
// persistent --db flag.
type commandDeps struct {
	out    io.Writer
	errOut io.Writer
	dbPath *string
	key    *string
}

// services is what a subcommand works against once the database is open.
type services struct {
	trips  *service.TripService
	export *service.ExportService
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var dbPath, key string

	cmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "Edit trip itineraries stored in a local SQLite file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "SQLite database file")
	cmd.PersistentFlags().StringVar(&key, "key", repo.DefaultTripKey, "Storage slot holding the trip document")

	deps := commandDeps{out: out, errOut: out, dbPath: &dbPath, key: &key}
	cmd.AddCommand(newVersionCommand(out, build))
	cmd.AddCommand(newTripsCommand(deps))
	cmd.AddCommand(newLocationsCommand(deps))
	cmd.AddCommand(newExportCommand(deps))
	cmd.InitDefaultCompletionCmd()
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}

// withServices opens the SQLite file, runs fn against services built on it
// and closes the file.
func withServices(ctx context.Context, deps commandDeps, fn func(ctx context.Context, svc services) error) error {
	db, err := repo.OpenSQLite(ctx, *deps.dbPath)
	if err != nil {
		return &ExitError{Code: ExitCodeIO, Err: err}
	}
	defer db.Close()

	log := slog.New(slog.NewTextHandler(deps.errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := repo.NewTripStore(repo.NewSQLiteSlotRepo(db), repo.WithKey(*deps.key), repo.WithLogger(log))
	return fn(ctx, services{
		trips:  service.NewTripService(store),
		export: service.NewExportService(store),
	})
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trips.db"
	}
	return filepath.Join(home, ".tripctl", "trips.db")
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
