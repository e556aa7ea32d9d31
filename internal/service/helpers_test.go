package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

var caseInvestigation = domain.ActivityKey{
	Category:       "Epidemiology",
	TypeOfActivity: "Surveillance",
	Activity:       "Weekly case investigation in hotspot villages",
}

// fixedNow is inside fiscal year 2025-2026.
var fixedNow = time.Date(2025, 10, 15, 8, 30, 0, 0, time.UTC)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type fixture struct {
	db       *sql.DB
	uow      db.UnitOfWork
	catalog  *catalog.Catalog
	resolver *catalog.Resolver
	plans    PlanService
	reports  ReportService
	observer *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	cat, err := catalog.Default()
	require.NoError(t, err)
	resolver, err := catalog.DefaultResolver()
	require.NoError(t, err)

	f := &fixture{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		catalog:  cat,
		resolver: resolver,
		observer: &recordingObserver{},
	}
	f.plans = f.planService(f.uow)
	f.reports = NewReportService(cat, f.uow, f.observer)
	return f
}

func (f *fixture) planService(uow db.UnitOfWork) PlanService {
	svc := NewPlanService(f.catalog, f.resolver, uow, f.observer).(*planService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func (f *fixture) newMalariaPlan(t *testing.T) string {
	t.Helper()
	plan, err := f.plans.Create(context.Background(), NewPlanRequest{Facility: "Kabgayi", Program: "malaria"})
	require.NoError(t, err)
	return plan.ID
}
