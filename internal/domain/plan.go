package domain

import (
	"fmt"
	"time"
)

// Plan is a fiscal-year budget plan for one program at one facility.
type Plan struct {
	ID           string
	FacilityName string
	FacilityType FacilityType
	District     string
	Province     string
	Program      string
	FiscalYear   string
	Status       PlanStatus
	Activities   []Activity
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayID returns the first 8 characters of the plan ID.
func (p *Plan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Title is the heading used for a plan in lists and reports.
func (p *Plan) Title() string {
	return fmt.Sprintf("%s %s plan, FY %s", p.FacilityName, p.Program, p.FiscalYear)
}

// EnsureEditable returns ErrPlanLocked unless the plan is a draft.
func (p *Plan) EnsureEditable() error {
	if !p.Status.Editable() {
		return fmt.Errorf("plan %s is %s: %w", p.DisplayID(), p.Status, ErrPlanLocked)
	}
	return nil
}

// Transition moves the plan to the given status, stamping the matching
// timestamp. Only the next status in the lifecycle is accepted.
func (p *Plan) Transition(to PlanStatus, now time.Time) error {
	if !p.Status.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", p.Status, to, ErrInvalidTransition)
	}
	p.Status = to
	p.UpdatedAt = now
	switch to {
	case PlanSubmitted:
		p.SubmittedAt = &now
	case PlanApproved:
		p.ApprovedAt = &now
	}
	return nil
}

// Keys returns the activity keys in plan order.
func (p *Plan) Keys() []ActivityKey {
	keys := make([]ActivityKey, len(p.Activities))
	for i, a := range p.Activities {
		keys[i] = a.Key()
	}
	return keys
}
