package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrUnboundRow   = errors.New("row is not bound to an activity")
	ErrDerivedField = errors.New("field is derived and cannot be set")
)

// Position is the index of a committed activity in the controller's
// collection. It changes whenever the collection changes, so callers must
// look rows up by key rather than cache positions across edits.
type Position int

// Unbound marks a template row with no committed activity behind it.
const Unbound Position = -1

func (p Position) Bound() bool { return p >= 0 }

// SubmitFunc receives the validated activities of a submitted table.
type SubmitFunc func(ctx context.Context, activities []domain.Activity) error

// Controller owns the editable activity collection of one plan. Every
// accepted edit recomputes the row's amounts immediately; totals are
// recomputed lazily on the next Summary or Rows call. A Controller is not
// safe for concurrent use.
type Controller struct {
	model      budget.CostModel
	layout     []domain.ActivityKey
	activities []domain.Activity
	index      map[domain.ActivityKey]Position

	summary budget.Summary
	dirty   bool
}

// New builds a controller over activities, laid out by the ordered catalog
// keys. Duplicate keys are rejected. Every activity is recomputed so stale
// stored amounts cannot leak into totals.
func New(model budget.CostModel, layout []domain.ActivityKey, activities []domain.Activity) (*Controller, error) {
	c := &Controller{
		model:      model,
		layout:     append([]domain.ActivityKey(nil), layout...),
		activities: append([]domain.Activity(nil), activities...),
		dirty:      true,
	}
	if err := c.reindex(); err != nil {
		return nil, err
	}
	budget.RecomputeAll(model, c.activities)
	return c, nil
}

func (c *Controller) reindex() error {
	index := make(map[domain.ActivityKey]Position, len(c.activities))
	for i, a := range c.activities {
		k := a.Key()
		if _, dup := index[k]; dup {
			return fmt.Errorf("%s: %w", k, domain.ErrDuplicateActivity)
		}
		index[k] = Position(i)
	}
	c.index = index
	return nil
}

// Model returns the cost model driving derivation.
func (c *Controller) Model() budget.CostModel { return c.model }

// Len returns the number of committed activities.
func (c *Controller) Len() int { return len(c.activities) }

// GetOrCreate returns the activity stored under key and its position. When
// no activity exists it returns a fresh zero-valued one and Unbound; the
// collection is left untouched.
func (c *Controller) GetOrCreate(key domain.ActivityKey) (domain.Activity, Position) {
	if pos, ok := c.index[key]; ok {
		return c.activities[pos], pos
	}
	return domain.NewActivity(key), Unbound
}

// At returns the activity at pos.
func (c *Controller) At(pos Position) (domain.Activity, error) {
	if !c.valid(pos) {
		return domain.Activity{}, fmt.Errorf("position %d: %w", pos, ErrUnboundRow)
	}
	return c.activities[pos], nil
}

// Commit binds key to a new zero-valued activity and returns its position.
// Committing an existing key returns the existing position.
func (c *Controller) Commit(key domain.ActivityKey) Position {
	if pos, ok := c.index[key]; ok {
		return pos
	}
	c.activities = append(c.activities, budget.Recompute(c.model, domain.NewActivity(key)))
	pos := Position(len(c.activities) - 1)
	c.index[key] = pos
	c.dirty = true
	return pos
}

// Backfill commits every layout key that has no activity yet and reports how
// many were added.
func (c *Controller) Backfill() int {
	added := 0
	for _, k := range c.layout {
		if _, ok := c.index[k]; !ok {
			c.Commit(k)
			added++
		}
	}
	return added
}

// SetField parses raw, validates it against the field's constraint and, if
// accepted, stores it and recomputes the row. A rejected value leaves the
// row unchanged.
func (c *Controller) SetField(pos Position, f domain.Field, raw string) error {
	if !c.valid(pos) {
		return fmt.Errorf("position %d: %w", pos, ErrUnboundRow)
	}
	if f.IsDerived() {
		return fmt.Errorf("%s: %w", f, ErrDerivedField)
	}
	a := c.activities[pos]
	if !c.model.Accepts(f) {
		return &domain.ValidationError{Key: a.Key(), Field: f, Reason: "is not an input of the " + c.model.String() + " cost model"}
	}

	value, err := parseInput(a.Key(), f, raw)
	if err != nil {
		return err
	}
	if err := checkValue(c.model, a.Key(), f, value, raw); err != nil {
		return err
	}

	apply(&a, f, value)
	if budget.DependsOn(f) {
		a = budget.Recompute(c.model, a)
		c.dirty = true
	}
	c.activities[pos] = a
	return nil
}

// SetByKey commits key if needed and then sets the field.
func (c *Controller) SetByKey(key domain.ActivityKey, f domain.Field, raw string) error {
	pos, existed := c.index[key]
	if !existed {
		pos = c.Commit(key)
	}
	if err := c.SetField(pos, f, raw); err != nil {
		if !existed {
			c.remove(pos)
		}
		return err
	}
	return nil
}

func (c *Controller) remove(pos Position) {
	c.activities = append(c.activities[:pos], c.activities[pos+1:]...)
	_ = c.reindex()
	c.dirty = true
}

func (c *Controller) valid(pos Position) bool {
	return pos.Bound() && int(pos) < len(c.activities)
}

// Activities returns a copy of the committed activities in position order.
func (c *Controller) Activities() []domain.Activity {
	return append([]domain.Activity(nil), c.activities...)
}

// Summary returns the current aggregates, recomputing them if an edit
// invalidated them.
func (c *Controller) Summary() budget.Summary {
	if c.dirty {
		c.summary = budget.Summarize(c.activities)
		c.dirty = false
	}
	return c.summary
}

// Validate checks every committed row and returns the first violation in
// position order.
func (c *Controller) Validate() error {
	for _, a := range c.activities {
		if err := validateRow(c.model, a); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDraft checks the constraints every saved row must meet: frequency
// at least 1, no negative quantities and no negative unit cost.
func (c *Controller) ValidateDraft() error {
	for _, a := range c.activities {
		if err := validateDraftRow(c.model, a); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns an independent copy of the controller. Hand a snapshot,
// not the controller itself, to work that runs off the owning goroutine.
func (c *Controller) Snapshot() *Controller {
	cp := &Controller{
		model:      c.model,
		layout:     c.layout,
		activities: c.Activities(),
		index:      make(map[domain.ActivityKey]Position, len(c.index)),
		dirty:      true,
	}
	for k, pos := range c.index {
		cp.index[k] = pos
	}
	return cp
}

// Submit validates the whole table and hands the activities to fn. Nothing
// reaches fn when any row is invalid.
func (c *Controller) Submit(ctx context.Context, fn SubmitFunc) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return fn(ctx, c.Activities())
}

// CategoryTotal is the aggregate of one category.
func (c *Controller) CategoryTotal(category string) decimal.Decimal {
	cs, ok := c.Summary().Category(category)
	if !ok {
		return decimal.Zero
	}
	return cs.Total
}
