package testutil

import (
	"time"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithProgram(program string) PlanOption {
	return func(p *domain.Plan) {
		p.Program = program
	}
}

func WithFiscalYear(fy string) PlanOption {
	return func(p *domain.Plan) {
		p.FiscalYear = fy
	}
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

func WithFacilityType(t domain.FacilityType) PlanOption {
	return func(p *domain.Plan) {
		p.FacilityType = t
	}
}

func WithActivities(activities ...domain.Activity) PlanOption {
	return func(p *domain.Plan) {
		p.Activities = activities
	}
}

func WithUpdatedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.UpdatedAt = t
	}
}

// NewTestPlan returns a draft HIV plan for the given facility.
func NewTestPlan(facility string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:           uuid.New().String(),
		FacilityName: facility,
		FacilityType: domain.FacilityHospital,
		District:     "Muhanga",
		Province:     "Southern",
		Program:      "HIV",
		FiscalYear:   "2025-2026",
		Status:       domain.PlanDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithFrequency(f int) ActivityOption {
	return func(a *domain.Activity) {
		a.Frequency = f
	}
}

func WithUnitCost(c int64) ActivityOption {
	return func(a *domain.Activity) {
		a.UnitCost = decimal.NewFromInt(c)
	}
}

func WithQuantity(q int) ActivityOption {
	return func(a *domain.Activity) {
		a.Quantity = q
	}
}

func WithCounts(q1, q2, q3, q4 int) ActivityOption {
	return func(a *domain.Activity) {
		a.Counts = [domain.QuartersPerYear]int{q1, q2, q3, q4}
	}
}

func WithComment(c string) ActivityOption {
	return func(a *domain.Activity) {
		a.Comment = c
	}
}

// NewTestActivity returns a zero-valued activity with the given options
// applied. Derived amounts are left for the derivation engine.
func NewTestActivity(category, typeOfActivity, activity string, opts ...ActivityOption) domain.Activity {
	a := domain.NewActivity(domain.ActivityKey{
		Category:       category,
		TypeOfActivity: typeOfActivity,
		Activity:       activity,
	})
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// TestSession returns a completed onboarding session for hospital.
func TestSession(hospital string) domain.Session {
	at := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return domain.Session{
		Name:        "Test Planner",
		Email:       "planner@example.org",
		Hospital:    hospital,
		District:    "Muhanga",
		Province:    "Southern",
		Completed:   true,
		CompletedAt: &at,
	}
}
