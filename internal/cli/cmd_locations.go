package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/internal/domain"
)

func newLocationsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Day location management",
	}
	cmd.AddCommand(
		newLocationsAddCommand(deps),
		newLocationsRemoveCommand(deps),
	)
	return cmd
}

func newLocationsAddCommand(deps commandDeps) *cobra.Command {
	var (
		name    string
		address string
		lat     float64
		lng     float64
	)

	cmd := &cobra.Command{
		Use:   "add <trip-id> <day-index>",
		Short: "Append a location to a trip day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIndex, err := parseDayIndex(args[1])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				day, err := svc.trips.AddLocation(ctx, args[0], dayIndex, domain.Location{
					Name:      name,
					Address:   address,
					Latitude:  lat,
					Longitude: lng,
				})
				if err != nil {
					return mapCommandError(err)
				}
				added := day.Locations[len(day.Locations)-1]
				_, err = fmt.Fprintln(deps.out, added.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name")
	cmd.Flags().StringVar(&address, "addr", "", "Street address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	return cmd
}

func newLocationsRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <trip-id> <day-index> <location-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a location from a trip day",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIndex, err := parseDayIndex(args[1])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				return mapCommandError(svc.trips.RemoveLocation(ctx, args[0], dayIndex, args[2]))
			})
		},
	}
}

func parseDayIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, usageErrorf("day index must be a non-negative integer, got %q", raw)
	}
	return n, nil
}
