package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/table"
	"github.com/spf13/cobra"
)

func newPlanTableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "table ID",
		Short: "Print the editable table of a draft plan with row numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, c, err := app.Plans.OpenEditor(ctx, id)
			if errors.Is(err, domain.ErrPlanLocked) {
				return fmt.Errorf("%w; use 'fyplan plan show %s' to view it", err, args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatPlanMeta(p))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatEditorRows(c.Rows(), c.Model(), app.Money, -1))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatEditorFooter(c.Summary(), app.Money))
			fmt.Fprintln(out, formatter.Dim("Inputs: "+inputNames(c)))
			return nil
		},
	}
}

func inputNames(c *table.Controller) string {
	fields := c.Model().Inputs()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// dataRowAt returns the data row numbered n (1-based) as printed by
// 'plan table'.
func dataRowAt(c *table.Controller, n int) (table.DataRow, error) {
	rows := table.DataRows(c.Rows())
	if n < 1 || n > len(rows) {
		return table.DataRow{}, fmt.Errorf("row %d is out of range (1-%d)", n, len(rows))
	}
	return rows[n-1], nil
}

func newPlanSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set ID ROW FIELD VALUE...",
		Short: "Set one cost driver or comment of a draft plan row",
		Long: `Set one field of the row numbered ROW in 'fyplan plan table' and save the draft.

FIELD is one of frequency, unit_cost, quantity (uniform catalogs),
q1..q4 (per-quarter catalogs) or comment. Amounts and totals are
derived and cannot be set.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[1], err)
			}
			field, err := domain.ParseField(strings.ToLower(args[2]))
			if err != nil {
				return err
			}
			value := strings.Join(args[3:], " ")

			_, c, err := app.Plans.OpenEditor(ctx, id)
			if err != nil {
				return err
			}
			row, err := dataRowAt(c, n)
			if err != nil {
				return err
			}
			key := row.Activity.Key()
			if err := c.SetByKey(key, field, value); err != nil {
				return err
			}
			if _, err := app.Plans.SaveDraft(ctx, id, c.Activities()); err != nil {
				return err
			}

			a, _ := c.GetOrCreate(key)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s = %s  %s %s\n",
				key, field, value, formatter.Dim("row total"), app.Money.Format(a.TotalBudget))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEditorFooter(c.Summary(), app.Money))
			return nil
		},
	}
}

func newPlanFillCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fill ID",
		Short: "Add every catalog activity missing from a draft plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			_, c, err := app.Plans.OpenEditor(ctx, id)
			if err != nil {
				return err
			}
			added := c.Backfill()
			if added > 0 {
				if _, err := app.Plans.SaveDraft(ctx, id, c.Activities()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d activities (%d total)\n", added, c.Len())
			return nil
		},
	}
}

func newPlanEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID",
		Short: "Open a draft plan in the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !app.interactive() {
				return fmt.Errorf("plan edit needs a terminal; use 'fyplan plan set' instead")
			}
			return app.runTUI(newAppModel(app, func(s *SharedState) View { return newEditorView(s, id) }))
		},
	}
}
