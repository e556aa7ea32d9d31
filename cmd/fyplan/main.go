package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/cli"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/config"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfgPath := config.ConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	dbPath := cfg.General.DBPath
	if dbPath == "" {
		if dbPath, err = config.DefaultDBPath(); err != nil {
			return err
		}
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// A catalog directory replaces the embedded programs wholesale.
	var cat *catalog.Catalog
	if cfg.General.CatalogDir != "" {
		cat, err = catalog.LoadDir(cfg.General.CatalogDir)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	resolver, err := catalog.DefaultResolver()
	if err != nil {
		return fmt.Errorf("loading facilities: %w", err)
	}

	uow := db.NewSQLiteUnitOfWork(database)

	// Silent until --verbose or general.verbose lowers it.
	level := new(slog.LevelVar)
	level.Set(slog.LevelError + 4)
	observer := service.NewLogUseCaseObserver(os.Stderr, level)

	app := &cli.App{
		Plans:      service.NewPlanService(cat, resolver, uow, observer),
		Reports:    service.NewReportService(cat, uow, observer),
		Dashboard:  service.NewDashboardService(resolver, uow, cfg.Dashboard.PageSize, observer),
		Resolver:   resolver,
		Catalog:    cat,
		Config:     cfg,
		ConfigPath: cfgPath,
		Money:      formatter.NewMoney(cfg.General.Currency, cfg.General.Locale),
		LogLevel:   level,
	}

	// Detect interactive terminal for the TUI entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
