package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) dashboard(pageSize int) DashboardService {
	svc := NewDashboardService(f.resolver, f.uow, pageSize, f.observer).(*dashboardService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardService_RequiresOnboarding(t *testing.T) {
	f := newFixture(t)
	svc := f.dashboard(4)
	ctx := context.Background()

	session := testutil.TestSession("Kabgayi")
	session.Completed = false
	_, err := svc.Build(ctx, session, 1)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)

	_, err = svc.Build(ctx, testutil.TestSession("  "), 1)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)
}

func TestDashboardService_Build(t *testing.T) {
	f := newFixture(t)
	svc := f.dashboard(4)
	ctx := context.Background()

	f.newMalariaPlan(t)
	_, err := f.plans.Create(ctx, NewPlanRequest{Facility: "Gitarama", Program: "HIV"})
	require.NoError(t, err)
	_, err = f.plans.Create(ctx, NewPlanRequest{Facility: "gitarama", Program: "TB"})
	require.NoError(t, err)

	d, err := svc.Build(ctx, testutil.TestSession("Kabgayi"), 1)
	require.NoError(t, err)

	assert.Equal(t, FacilityCard{Name: "Kabgayi", Plans: 1}, d.Hospital)
	assert.Equal(t, []string{"HIV", "MALARIA", "TB"}, d.Programs)
	assert.Equal(t, 14, d.TotalCenters)
	assert.Equal(t, pager.Page{Number: 1, TotalPages: 4, Size: 4, Start: 0, End: 4}, d.Page)
	require.Len(t, d.HealthCenters, 4)
	assert.Equal(t, FacilityCard{Name: "Gitarama", Plans: 2}, d.HealthCenters[0])
	assert.Equal(t, 0, d.HealthCenters[1].Plans)
	assert.Equal(t, "2025-2026", d.FiscalYear)
	assert.Equal(t, domain.ReportingPeriods(2025), d.Periods)
	assert.Equal(t, "Muhanga", d.District)
}

func TestDashboardService_PageClamps(t *testing.T) {
	f := newFixture(t)
	svc := f.dashboard(4)

	d, err := svc.Build(context.Background(), testutil.TestSession("kabgayi"), 99)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Page.Number)
	// 14 centers, 4 per page: the last page holds two.
	assert.Len(t, d.HealthCenters, 2)
	assert.False(t, d.Page.HasNext())

	last := d.Window[len(d.Window)-1]
	assert.Equal(t, 4, last.Page)
	assert.True(t, last.Current)

	ev := f.observer.last()
	assert.Equal(t, "build-dashboard", ev.Name)
	assert.Equal(t, 4, ev.Fields["page"])
}

func TestDashboardService_UnknownHospital(t *testing.T) {
	f := newFixture(t)
	svc := f.dashboard(0)

	d, err := svc.Build(context.Background(), testutil.TestSession("Atlantis"), 1)
	require.NoError(t, err)
	assert.Empty(t, d.Programs)
	assert.Empty(t, d.HealthCenters)
	assert.Equal(t, 1, d.Page.TotalPages)
}
