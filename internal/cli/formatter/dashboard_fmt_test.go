package formatter

import (
	"testing"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func sampleDashboard() *service.Dashboard {
	page := pager.Paginate(9, 2, 4)
	return &service.Dashboard{
		Hospital:      service.FacilityCard{Name: "Kabgayi", Plans: 1},
		District:      "Muhanga",
		Province:      "Southern",
		Programs:      []string{"HIV", "MALARIA"},
		HealthCenters: []service.FacilityCard{{Name: "Gitarama", Plans: 2}, {Name: "Byimana"}},
		TotalCenters:  9,
		Page:          page,
		Window:        pager.Window(page.Number, page.TotalPages),
		FiscalYear:    domain.FiscalYearLabel(2025),
		Periods:       domain.ReportingPeriods(2025),
	}
}

func TestFormatDashboard(t *testing.T) {
	out := stripANSI(FormatDashboard(sampleDashboard(), 0))

	assert.Contains(t, out, "Kabgayi")
	assert.Contains(t, out, "1 plan")
	assert.Contains(t, out, "Muhanga, Southern")
	assert.Contains(t, out, "2025-2026")
	assert.Contains(t, out, "HIV  MALARIA")
	assert.Contains(t, out, "HEALTH CENTERS (9)")
	assert.Contains(t, out, "2 plans")
	assert.Contains(t, out, "no plans")
	assert.Contains(t, out, "‹ 1 [2] 3 ›")
	assert.NotContains(t, out, "loading")
}

func TestFormatDashboard_NoCenters(t *testing.T) {
	d := sampleDashboard()
	d.HealthCenters = nil
	d.TotalCenters = 0

	out := stripANSI(FormatDashboard(d, 0))
	assert.Contains(t, out, "No supervised health centers.")
}

func TestFormatPageWindow_ShowsPendingPage(t *testing.T) {
	page := pager.Paginate(40, 5, 4)
	out := stripANSI(FormatPageWindow(page, pager.Window(page.Number, page.TotalPages), 6))

	assert.Contains(t, out, "‹ 1 … 4 [5] 6 … 10 ›")
	assert.Contains(t, out, "loading page 6…")
}
