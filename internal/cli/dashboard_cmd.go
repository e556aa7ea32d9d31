package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var (
		page     int
		printOut bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your hospital, its programs and supervised health centers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && !printOut {
				return app.runTUI(newAppModel(app, nil))
			}

			d, err := app.Dashboard.Build(context.Background(), app.session(), page)
			if errors.Is(err, service.ErrOnboardingIncomplete) {
				return fmt.Errorf("%w: run 'fyplan onboard --hospital NAME' first", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(d, 0))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Health center page to show")
	cmd.Flags().BoolVar(&printOut, "print", false, "Print once instead of opening the interactive view")

	return cmd
}
