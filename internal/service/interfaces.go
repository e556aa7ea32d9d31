package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/alexanderramin/fyplan/internal/table"
)

// ErrOnboardingIncomplete is returned when the session has not named a
// hospital yet.
var ErrOnboardingIncomplete = errors.New("onboarding is not complete")

// NewPlanRequest describes a plan to create. An empty FiscalYear means the
// fiscal year in progress.
type NewPlanRequest struct {
	Facility   string
	Program    string
	FiscalYear string
	District   string
	Province   string
}

type PlanService interface {
	Create(ctx context.Context, req NewPlanRequest) (*domain.Plan, error)
	Get(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, f repository.PlanFilter) ([]*domain.Plan, error)
	Delete(ctx context.Context, id string) error
	SaveDraft(ctx context.Context, id string, activities []domain.Activity) (*domain.Plan, error)
	Submit(ctx context.Context, id string, c *table.Controller) (*domain.Plan, error)
	Advance(ctx context.Context, id string) (*domain.Plan, error)
	OpenEditor(ctx context.Context, id string) (*domain.Plan, *table.Controller, error)
}

// Report is the read-only view of a persisted plan.
type Report struct {
	Plan    *domain.Plan
	Model   budget.CostModel
	Periods []string
	Summary budget.Summary
}

type ReportService interface {
	Load(ctx context.Context, id string) (*Report, error)
}

// FacilityCard is one facility tile of the dashboard.
type FacilityCard struct {
	Name  string
	Plans int
}

// Dashboard is the landing view for the session's hospital.
type Dashboard struct {
	Hospital      FacilityCard
	District      string
	Province      string
	Programs      []string
	HealthCenters []FacilityCard
	TotalCenters  int
	Page          pager.Page
	Window        []pager.Item
	FiscalYear    string
	Periods       []string
}

type DashboardService interface {
	Build(ctx context.Context, session domain.Session, page int) (*Dashboard, error)
}
