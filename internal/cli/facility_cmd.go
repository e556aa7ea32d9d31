package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newFacilityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facility",
		Short: "Look up facilities and the programs they run",
	}

	cmd.AddCommand(
		newFacilityResolveCmd(app),
		newFacilityListCmd(app),
	)

	return cmd
}

func newFacilityResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Show the programs and supervised health centers of a hospital",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			res := app.Resolver.Resolve(name)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatResolution(name, res))
			return nil
		},
	}
}

func newFacilityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known hospitals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHospitals(app.Resolver))
			return nil
		},
	}
}
