package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/internal/domain"
)

func newExportCommand(deps commandDeps) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print every location of every trip as a flat table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				rows, err := svc.export.Export(ctx)
				if err != nil {
					return mapCommandError(err)
				}
				if asCSV {
					return domain.WriteExportCSV(deps.out, rows)
				}
				return printJSON(deps.out, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print CSV instead of JSON")
	return cmd
}
