package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Create, edit and review budget plans",
	}

	cmd.AddCommand(
		newPlanNewCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanTableCmd(app),
		newPlanSetCmd(app),
		newPlanFillCmd(app),
		newPlanEditCmd(app),
		newPlanSubmitCmd(app),
		newPlanAdvanceCmd(app),
		newPlanDeleteCmd(app),
	)

	return cmd
}

func newPlanNewCmd(app *App) *cobra.Command {
	var facility, program, fy string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft plan seeded from the program catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if facility == "" {
				if !app.interactive() {
					return fmt.Errorf("--facility is required")
				}
				form := wizardSelectFacility(app, &facility)
				if form == nil {
					return fmt.Errorf("no facilities available")
				}
				if err := form.Run(); err != nil {
					return err
				}
			}
			if program == "" {
				programs := app.Resolver.ProgramsAt(facility)
				switch {
				case len(programs) == 1:
					program = programs[0]
				case !app.interactive():
					return fmt.Errorf("--program is required (available at %s: %s)", facility, strings.Join(programs, ", "))
				default:
					form := wizardSelectProgram(programs, &program)
					if form == nil {
						return fmt.Errorf("no programs run at %s", facility)
					}
					if err := form.Run(); err != nil {
						return err
					}
				}
			}

			s := app.session()
			p, err := app.Plans.Create(ctx, service.NewPlanRequest{
				Facility:   facility,
				Program:    program,
				FiscalYear: fy,
				District:   s.District,
				Province:   s.Province,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s plan %s for %s (FY %s, %d activities)\n",
				p.Program, formatter.Bold(p.DisplayID()), p.FacilityName, p.FiscalYear, len(p.Activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&facility, "facility", "", "Hospital or health center name")
	cmd.Flags().StringVar(&program, "program", "", "Program, e.g. HIV or MALARIA")
	cmd.Flags().StringVar(&fy, "fy", "", "Fiscal year, e.g. 2025-2026 (default: current)")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var (
		f      repository.PlanFilter
		status statusValue
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Status = status.status
			return printPlanList(cmd.OutOrStdout(), app, f)
		},
	}

	cmd.Flags().StringVar(&f.Facility, "facility", "", "Only plans for this facility")
	cmd.Flags().StringVar(&f.Program, "program", "", "Only plans for this program")
	cmd.Flags().StringVar(&f.FiscalYear, "fy", "", "Only plans for this fiscal year")
	cmd.Flags().Var(&status, "status", "Only plans in this status (draft, submitted, pending_approval, approved)")

	return cmd
}

func printPlanList(w io.Writer, app *App, f repository.PlanFilter) error {
	plans, err := app.Plans.List(context.Background(), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, formatter.FormatPlanList(plans, app.Money, app.now()))
	return nil
}

func newPlanShowCmd(app *App) *cobra.Command {
	format := newFormatValue("text", "text", "json")

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a plan with its category and quarter totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			r, err := loadReport(ctx, app, args[0])
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Fprintln(out, formatter.Error(err))
				return printPlanList(out, app, repository.PlanFilter{})
			}
			if err != nil {
				return err
			}

			if format.String() == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(newReportJSON(r))
			}
			fmt.Fprintln(out, formatter.FormatReport(r, app.Money))
			return nil
		},
	}

	cmd.Flags().Var(format, "format", "Output format: text or json")

	return cmd
}

func loadReport(ctx context.Context, app *App, input string) (*service.Report, error) {
	id, err := resolvePlanID(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return app.Reports.Load(ctx, id)
}

// reportJSON is the export form of a report. Amounts are decimal strings.
type reportJSON struct {
	ID           string            `json:"id"`
	Facility     string            `json:"facility"`
	FacilityType string            `json:"facility_type"`
	District     string            `json:"district,omitempty"`
	Province     string            `json:"province,omitempty"`
	Program      string            `json:"program"`
	FiscalYear   string            `json:"fiscal_year"`
	Status       string            `json:"status"`
	CostModel    string            `json:"cost_model"`
	Periods      []string          `json:"periods"`
	Quarters     []decimal.Decimal `json:"quarters"`
	QuarterShare []int             `json:"quarter_shares"`
	GrandTotal   decimal.Decimal   `json:"grand_total"`
	Categories   []categoryJSON    `json:"categories"`
}

type categoryJSON struct {
	Name       string            `json:"name"`
	Quarters   []decimal.Decimal `json:"quarters"`
	Total      decimal.Decimal   `json:"total"`
	Share      int               `json:"share"`
	Activities []activityJSON    `json:"activities"`
}

type activityJSON struct {
	TypeOfActivity string            `json:"type_of_activity"`
	Activity       string            `json:"activity"`
	Frequency      int               `json:"frequency"`
	UnitCost       decimal.Decimal   `json:"unit_cost"`
	Quantity       int               `json:"quantity"`
	Counts         []int             `json:"counts"`
	Amounts        []decimal.Decimal `json:"amounts"`
	TotalBudget    decimal.Decimal   `json:"total_budget"`
	Comment        string            `json:"comment,omitempty"`
}

func newReportJSON(r *service.Report) reportJSON {
	p := r.Plan
	out := reportJSON{
		ID:           p.ID,
		Facility:     p.FacilityName,
		FacilityType: string(p.FacilityType),
		District:     p.District,
		Province:     p.Province,
		Program:      p.Program,
		FiscalYear:   p.FiscalYear,
		Status:       string(p.Status),
		CostModel:    r.Model.String(),
		Periods:      r.Periods,
		Quarters:     r.Summary.Quarters[:],
		QuarterShare: r.Summary.QuarterShares[:],
		GrandTotal:   r.Summary.GrandTotal,
		Categories:   make([]categoryJSON, 0, len(r.Summary.Categories)),
	}
	for _, cs := range r.Summary.Categories {
		c := categoryJSON{
			Name:       cs.Category,
			Quarters:   quartersOf(cs.Quarters),
			Total:      cs.Total,
			Share:      cs.Share,
			Activities: make([]activityJSON, 0, len(cs.Activities)),
		}
		for _, a := range cs.Activities {
			c.Activities = append(c.Activities, activityJSON{
				TypeOfActivity: a.TypeOfActivity,
				Activity:       a.Activity,
				Frequency:      a.Frequency,
				UnitCost:       a.UnitCost,
				Quantity:       a.Quantity,
				Counts:         a.Counts[:],
				Amounts:        a.Amounts[:],
				TotalBudget:    a.TotalBudget,
				Comment:        a.Comment,
			})
		}
		out.Categories = append(out.Categories, c)
	}
	return out
}

func quartersOf(q budget.Quarters) []decimal.Decimal {
	return append([]decimal.Decimal(nil), q[:]...)
}

func newPlanSubmitCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "submit ID",
		Short: "Validate every row and submit a draft plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, c, err := app.Plans.OpenEditor(ctx, id)
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Submit %s (%s)? It can no longer be edited.", p.Title(), app.Money.Format(c.Summary().GrandTotal))
				if err := wizardConfirm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			p, err = app.Plans.Submit(ctx, id, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s: %s\n", p.DisplayID(), app.Money.Format(budget.GrandTotal(p.Activities)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newPlanAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance ID",
		Short: "Move a plan to the next review status",
		Long:  "Move a plan one step through draft, submitted, pending approval and approved. Advancing a draft submits it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.Advance(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.DisplayID(), formatter.StatusPill(p.Status))
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a draft plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				if err := wizardConfirm("Delete this plan?", &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Plans.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", id[:min(8, len(id))])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
