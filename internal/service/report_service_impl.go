package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
)

type reportService struct {
	catalog  *catalog.Catalog
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewReportService(cat *catalog.Catalog, uow db.UnitOfWork, observers ...UseCaseObserver) ReportService {
	return &reportService{
		catalog:  cat,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Load reads a plan and aggregates its stored amounts. It never writes.
// Unknown ids return an error wrapping domain.ErrNotFound.
func (s *reportService) Load(ctx context.Context, id string) (report *Report, err error) {
	fields := map[string]any{"plan_id": id}
	done := track(ctx, s.observer, "load-report", fields)
	defer func() { done(err) }()

	var plan *domain.Plan
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plan, err = loadPlan(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	report = &Report{
		Plan:    plan,
		Model:   budget.UniformQuarterly,
		Periods: periodsOf(plan.FiscalYear),
		Summary: budget.Summarize(plan.Activities),
	}
	// A program dropped from the catalog still has a readable report.
	if p, ok := s.catalog.Program(plan.Program); ok {
		report.Model = p.Model
	}
	fields["activity_count"] = len(plan.Activities)
	return report, nil
}

// periodsOf derives the quarter labels from a "2025-2026" fiscal year.
func periodsOf(fiscalYear string) []string {
	start, _, _ := strings.Cut(fiscalYear, "-")
	year, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return []string{"Q1", "Q2", "Q3", "Q4"}
	}
	return domain.ReportingPeriods(year)
}
