package repository

import (
	"context"

	"github.com/alexanderramin/fyplan/internal/domain"
)

// PlanFilter narrows a plan listing. Zero-valued fields match everything.
type PlanFilter struct {
	Facility   string
	Program    string
	FiscalYear string
	Status     domain.PlanStatus
}

// PlanRepo stores plan headers. Activities live in ActivityRepo.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	FindByScope(ctx context.Context, facility, program, fiscalYear string) (*domain.Plan, error)
	List(ctx context.Context, f PlanFilter) ([]*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
	CountByFacility(ctx context.Context, facilities []string) (map[string]int, error)
}

// ActivityRepo stores the budget lines of plans.
type ActivityRepo interface {
	ListByPlan(ctx context.Context, planID string) ([]domain.Activity, error)
	ListByPlans(ctx context.Context, planIDs []string) (map[string][]domain.Activity, error)
	ReplaceForPlan(ctx context.Context, planID string, activities []domain.Activity) error
}
