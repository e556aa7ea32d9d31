package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/config"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands and the TUI.
type App struct {
	Plans     service.PlanService
	Reports   service.ReportService
	Dashboard service.DashboardService
	Resolver  *catalog.Resolver
	Catalog   *catalog.Catalog

	Config     config.Config
	ConfigPath string
	Money      formatter.Money

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Now is the clock for relative times; nil means time.Now.
	Now func() time.Time
	// RunTUI starts a bubbletea program; tests replace it.
	RunTUI func(m tea.Model) error
	// LogLevel gates the use-case log. --verbose lowers it to Info.
	LogLevel *slog.LevelVar
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) session() domain.Session {
	return a.Config.SessionContext()
}

func (a *App) pageDelay() time.Duration {
	return a.Config.PageDelay()
}

func (a *App) runTUI(m tea.Model) error {
	if a.RunTUI != nil {
		return a.RunTUI(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRootCmd creates the top-level "fyplan" command and registers all
// subcommands against the provided App. Run with no arguments in a
// terminal it opens the dashboard TUI.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "fyplan",
		Short:         "Fiscal-year budget planner for health facilities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.LogLevel != nil && (verbose || app.Config.General.Verbose) {
				app.LogLevel.Set(slog.LevelInfo)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return app.runTUI(newAppModel(app, nil))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each service use case to stderr")

	root.AddCommand(
		newFacilityCmd(app),
		newPlanCmd(app),
		newDashboardCmd(app),
		newCatalogCmd(app),
		newConfigCmd(app),
		newOnboardCmd(app),
	)

	return root
}
