package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/alexanderramin/fyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(model budget.CostModel, activities ...domain.Activity) *service.Report {
	budget.RecomputeAll(model, activities)
	plan := testutil.NewTestPlan("Kabgayi", testutil.WithActivities(activities...))
	return &service.Report{
		Plan:    plan,
		Model:   model,
		Periods: domain.ReportingPeriods(2025),
		Summary: budget.Summarize(activities),
	}
}

func TestFormatReport_UniformModel(t *testing.T) {
	r := sampleReport(budget.UniformQuarterly,
		testutil.NewTestActivity("HR", "Salaries", "Nurses", testutil.WithUnitCost(300000), testutil.WithQuantity(3)),
		testutil.NewTestActivity("Travel", "Transport", "Fuel", testutil.WithUnitCost(100), testutil.WithQuantity(1)),
	)

	out := stripANSI(FormatReport(r, DefaultMoney()))

	assert.Contains(t, out, "Kabgayi HIV plan, FY 2025-2026")
	assert.Contains(t, out, "Q1 FY 2025, Q2 FY 2025, Q3 FY 2026, Q4 FY 2026")
	assert.Contains(t, out, "QTY")
	assert.NotContains(t, out, "C1")
	assert.Contains(t, out, "Total HR")
	assert.Contains(t, out, "Total Travel")
	assert.Contains(t, out, "3,600,000")
	assert.Contains(t, out, "RWF 3,600,400")
	assert.Contains(t, out, "100%")
}

func TestFormatReport_PerQuarterModelShowsCounts(t *testing.T) {
	r := sampleReport(budget.PerQuarterCount,
		testutil.NewTestActivity("Lab", "Tests", "Viral load", testutil.WithUnitCost(50), testutil.WithCounts(1, 2, 3, 4)),
	)

	out := stripANSI(FormatReport(r, DefaultMoney()))

	for _, h := range []string{"C1", "C2", "C3", "C4"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "RWF 500")
}

func TestFormatReport_EmptyPlan(t *testing.T) {
	out := stripANSI(FormatReport(sampleReport(budget.UniformQuarterly), DefaultMoney()))
	assert.Contains(t, out, "no activities")
}

func TestFormatSummary_QuarterShares(t *testing.T) {
	activities := []domain.Activity{
		testutil.NewTestActivity("Lab", "Tests", "Viral load", testutil.WithUnitCost(10), testutil.WithCounts(1, 1, 1, 1)),
	}
	budget.RecomputeAll(budget.PerQuarterCount, activities)

	out := stripANSI(FormatSummary(budget.Summarize(activities), nil, DefaultMoney()))

	assert.Equal(t, 4, strings.Count(out, " 25%"))
	require.Contains(t, out, "Q4")
	assert.Contains(t, out, "RWF 40")
}
