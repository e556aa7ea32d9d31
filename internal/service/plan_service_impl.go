package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/catalog"
	"github.com/alexanderramin/fyplan/internal/db"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/alexanderramin/fyplan/internal/table"
	"github.com/google/uuid"
)

type planService struct {
	catalog  *catalog.Catalog
	resolver *catalog.Resolver
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewPlanService(
	cat *catalog.Catalog,
	resolver *catalog.Resolver,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		catalog:  cat,
		resolver: resolver,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CurrentFiscalYear labels the fiscal year containing t.
func CurrentFiscalYear(t time.Time) string {
	return domain.FiscalYearLabel(domain.FiscalYearStart(t.Year(), int(t.Month())))
}

func (s *planService) Create(ctx context.Context, req NewPlanRequest) (plan *domain.Plan, err error) {
	fields := map[string]any{
		"facility": req.Facility,
		"program":  req.Program,
	}
	done := track(ctx, s.observer, "create-plan", fields)
	defer func() { done(err) }()

	facility := strings.TrimSpace(req.Facility)
	if facility == "" {
		return nil, fmt.Errorf("facility is required")
	}
	facilityType, ok := s.resolver.FacilityType(facility)
	if !ok {
		return nil, fmt.Errorf("facility %q: %w", facility, domain.ErrNotFound)
	}

	program := strings.ToUpper(strings.TrimSpace(req.Program))
	offered := s.resolver.ProgramsAt(facility)
	if !slices.Contains(offered, program) {
		return nil, fmt.Errorf("program %q is not run at %s (available: %s)",
			req.Program, facility, strings.Join(offered, ", "))
	}

	fc, err := s.catalog.Lookup(program, facilityType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fiscalYear := strings.TrimSpace(req.FiscalYear)
	if fiscalYear == "" {
		fiscalYear = CurrentFiscalYear(now)
	}

	plan = &domain.Plan{
		ID:           uuid.New().String(),
		FacilityName: facility,
		FacilityType: facilityType,
		District:     req.District,
		Province:     req.Province,
		Program:      program,
		FiscalYear:   fiscalYear,
		Status:       domain.PlanDraft,
		Activities:   fc.Seed(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range plan.Activities {
		plan.Activities[i].ID = uuid.New().String()
	}
	budget.RecomputeAll(fc.Model, plan.Activities)
	fields["plan_id"] = plan.ID
	fields["activity_count"] = len(plan.Activities)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePlanRepo(tx).Create(ctx, plan); err != nil {
			return err
		}
		return repository.NewSQLiteActivityRepo(tx).ReplaceForPlan(ctx, plan.ID, plan.Activities)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	var plan *domain.Plan
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plan, err = loadPlan(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context, f repository.PlanFilter) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plans, err = repository.NewSQLitePlanRepo(tx).List(ctx, f)
		if err != nil {
			return err
		}
		ids := make([]string, len(plans))
		for i, p := range plans {
			ids[i] = p.ID
		}
		byPlan, err := repository.NewSQLiteActivityRepo(tx).ListByPlans(ctx, ids)
		if err != nil {
			return err
		}
		for _, p := range plans {
			p.Activities = byPlan[p.ID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *planService) Delete(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "delete-plan", map[string]any{"plan_id": id})
	defer func() { done(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		plan, err := plans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := plan.EnsureEditable(); err != nil {
			return err
		}
		return plans.Delete(ctx, id)
	})
}

func (s *planService) SaveDraft(ctx context.Context, id string, activities []domain.Activity) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan_id": id, "activity_count": len(activities)}
	done := track(ctx, s.observer, "save-draft", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		var err error
		plan, err = plans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := plan.EnsureEditable(); err != nil {
			return err
		}
		fc, err := s.catalog.Lookup(plan.Program, plan.FacilityType)
		if err != nil {
			return err
		}
		// The controller rejects duplicate keys and recomputes every row.
		c, err := table.New(fc.Model, fc.Keys(), activities)
		if err != nil {
			return err
		}
		if err := c.ValidateDraft(); err != nil {
			return err
		}
		plan.Activities = c.Activities()
		plan.UpdatedAt = s.now()
		if err := repository.NewSQLiteActivityRepo(tx).ReplaceForPlan(ctx, plan.ID, plan.Activities); err != nil {
			return err
		}
		return plans.Update(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Submit validates the controller's table and, only if every row passes,
// stores it and moves the plan to submitted in one transaction.
func (s *planService) Submit(ctx context.Context, id string, c *table.Controller) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan_id": id}
	done := track(ctx, s.observer, "submit-plan", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		plan, err = s.submitTx(ctx, tx, id, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["total"] = budget.GrandTotal(plan.Activities).String()
	return plan, nil
}

func (s *planService) submitTx(ctx context.Context, tx db.DBTX, id string, c *table.Controller) (*domain.Plan, error) {
	plans := repository.NewSQLitePlanRepo(tx)
	plan, err := plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.EnsureEditable(); err != nil {
		return nil, err
	}

	err = c.Submit(ctx, func(ctx context.Context, activities []domain.Activity) error {
		if err := repository.NewSQLiteActivityRepo(tx).ReplaceForPlan(ctx, plan.ID, activities); err != nil {
			return err
		}
		plan.Activities = activities
		if err := plan.Transition(domain.PlanSubmitted, s.now()); err != nil {
			return err
		}
		return plans.Update(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Advance moves a plan one step along its lifecycle. A draft is submitted
// from its stored activities and goes through the same validation as Submit.
func (s *planService) Advance(ctx context.Context, id string) (plan *domain.Plan, err error) {
	fields := map[string]any{"plan_id": id}
	done := track(ctx, s.observer, "advance-plan", fields)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		current, err := loadPlan(ctx, tx, id)
		if err != nil {
			return err
		}
		fields["from"] = string(current.Status)

		if current.Status == domain.PlanDraft {
			c, err := s.controllerFor(current)
			if err != nil {
				return err
			}
			plan, err = s.submitTx(ctx, tx, id, c)
			return err
		}

		next, ok := current.Status.Next()
		if !ok {
			return fmt.Errorf("plan %s is already %s: %w", current.DisplayID(), current.Status, domain.ErrInvalidTransition)
		}
		if err := current.Transition(next, s.now()); err != nil {
			return err
		}
		if err := repository.NewSQLitePlanRepo(tx).Update(ctx, current); err != nil {
			return err
		}
		plan = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["to"] = string(plan.Status)
	return plan, nil
}

// OpenEditor loads a draft plan into a table controller laid out by its
// catalog.
func (s *planService) OpenEditor(ctx context.Context, id string) (*domain.Plan, *table.Controller, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := plan.EnsureEditable(); err != nil {
		return nil, nil, err
	}
	c, err := s.controllerFor(plan)
	if err != nil {
		return nil, nil, err
	}
	return plan, c, nil
}

func (s *planService) controllerFor(plan *domain.Plan) (*table.Controller, error) {
	fc, err := s.catalog.Lookup(plan.Program, plan.FacilityType)
	if err != nil {
		return nil, err
	}
	c, err := table.New(fc.Model, fc.Keys(), plan.Activities)
	if err != nil {
		return nil, fmt.Errorf("opening plan %s: %w", plan.DisplayID(), err)
	}
	return c, nil
}

func loadPlan(ctx context.Context, tx db.DBTX, id string) (*domain.Plan, error) {
	plan, err := repository.NewSQLitePlanRepo(tx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Activities, err = repository.NewSQLiteActivityRepo(tx).ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return plan, nil
}
