package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/internal/domain"
)

func newTripsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Trip management",
	}
	cmd.AddCommand(
		newTripsListCommand(deps),
		newTripsShowCommand(deps),
		newTripsAddCommand(deps),
		newTripsRemoveCommand(deps),
	)
	return cmd
}

func newTripsListCommand(deps commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trips",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				trips, err := svc.trips.List(ctx)
				if err != nil {
					return mapCommandError(err)
				}
				if asJSON {
					return printJSON(deps.out, trips)
				}

				tw := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tSTART\tLOCATIONS")
				for _, t := range trips {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", t.ID, t.Name, t.StartDate, countLocations(t))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print trips as JSON")
	return cmd
}

func newTripsShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Print one trip as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				trip, err := svc.trips.GetByID(ctx, args[0])
				if err != nil {
					return mapCommandError(err)
				}
				return printJSON(deps.out, trip)
			})
		},
	}
}

func newTripsAddCommand(deps commandDeps) *cobra.Command {
	var name, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return usageErrorf("trips add requires --name")
			}
			if start == "" {
				return usageErrorf("trips add requires --start")
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				trip, err := svc.trips.Create(ctx, domain.Trip{Name: name, StartDate: start})
				if err != nil {
					return mapCommandError(err)
				}
				_, err = fmt.Fprintln(deps.out, trip.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Trip name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	return cmd
}

func newTripsRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <trip-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a trip",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				return mapCommandError(svc.trips.Delete(ctx, args[0]))
			})
		},
	}
}

func countLocations(t domain.Trip) int {
	n := 0
	for _, d := range t.Days {
		if d != nil {
			n += len(d.Locations)
		}
	}
	return n
}
