package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatPlanList_ShowsTotalsAndAge(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	fuel := testutil.NewTestActivity("Travel", "Transport", "Fuel",
		testutil.WithUnitCost(1000), testutil.WithQuantity(3))
	activities := []domain.Activity{fuel}
	budget.RecomputeAll(budget.UniformQuarterly, activities)

	plan := testutil.NewTestPlan("Kabgayi",
		testutil.WithProgram("MALARIA"),
		testutil.WithActivities(activities...),
		testutil.WithUpdatedAt(now.Add(-2*time.Hour)))

	out := stripANSI(FormatPlanList([]*domain.Plan{plan}, DefaultMoney(), now))

	assert.Contains(t, out, "PLANS")
	assert.Contains(t, out, plan.DisplayID())
	assert.Contains(t, out, "Kabgayi")
	assert.Contains(t, out, "MALARIA")
	assert.Contains(t, out, "○ Draft")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "2 hours ago")
}

func TestFormatPlanList_Empty(t *testing.T) {
	out := stripANSI(FormatPlanList(nil, DefaultMoney(), time.Now()))
	assert.Contains(t, out, "No plans yet")
}

func TestFormatPlanMeta_ShowsLifecycleDates(t *testing.T) {
	submitted := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	plan := testutil.NewTestPlan("Kabgayi", testutil.WithPlanStatus(domain.PlanSubmitted))
	plan.SubmittedAt = &submitted

	out := stripANSI(FormatPlanMeta(plan))

	assert.Contains(t, out, "Muhanga, Southern")
	assert.Contains(t, out, "◐ Submitted")
	assert.Contains(t, out, "2025-08-01")
	assert.NotContains(t, out, "APPROVED")
}
