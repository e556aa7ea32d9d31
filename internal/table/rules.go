package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// rule returns the validator tag constraining f. Unit costs are decimals
// and are checked by checkMinimum instead, since validator compares numbers
// as float64.
func rule(f domain.Field) string {
	switch {
	case f == domain.FieldFrequency:
		return "gte=1"
	case f.IsQuantity():
		return "gte=0"
	case f == domain.FieldComment:
		return "max=500"
	}
	return ""
}

// checkValue validates a parsed value for field f of the row identified by key.
func checkValue(m budget.CostModel, key domain.ActivityKey, f domain.Field, value any, raw string) error {
	if d, ok := value.(decimal.Decimal); ok {
		return checkMinimum(key, f, d, m.MinUnitCost(), raw)
	}
	tag := rule(f)
	if tag == "" {
		return nil
	}
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &domain.ValidationError{Key: key, Field: f, Value: raw, Reason: describe(fieldErrs[0])}
	}
	return fmt.Errorf("validating %s: %w", f, err)
}

// checkMinimum rejects d below floor using exact decimal comparison.
func checkMinimum(key domain.ActivityKey, f domain.Field, d, floor decimal.Decimal, raw string) error {
	if d.LessThan(floor) {
		return &domain.ValidationError{Key: key, Field: f, Value: raw, Reason: "must be at least " + floor.String()}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag()
	}
}

// parseInput converts raw UI text into the typed value of field f. Empty
// input is rejected rather than coerced to zero.
func parseInput(key domain.ActivityKey, f domain.Field, raw string) (any, error) {
	if f == domain.FieldComment {
		return raw, nil
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, &domain.ValidationError{Key: key, Field: f, Reason: "is required"}
	}
	if f == domain.FieldUnitCost {
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return nil, &domain.ValidationError{Key: key, Field: f, Value: raw, Reason: "must be a number"}
		}
		return d, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil, &domain.ValidationError{Key: key, Field: f, Value: raw, Reason: "must be a whole number"}
	}
	return n, nil
}

// apply writes a validated value into a.
func apply(a *domain.Activity, f domain.Field, value any) {
	switch {
	case f == domain.FieldFrequency:
		a.Frequency = value.(int)
	case f == domain.FieldUnitCost:
		a.UnitCost = value.(decimal.Decimal)
	case f == domain.FieldQuantity:
		a.Quantity = value.(int)
	case f.CountQuarter() >= 0:
		a.Counts[f.CountQuarter()] = value.(int)
	case f == domain.FieldComment:
		a.Comment = value.(string)
	}
}

// fieldValue reads the current value of an input field.
func fieldValue(a domain.Activity, f domain.Field) any {
	switch {
	case f == domain.FieldFrequency:
		return a.Frequency
	case f == domain.FieldUnitCost:
		return a.UnitCost
	case f == domain.FieldQuantity:
		return a.Quantity
	case f.CountQuarter() >= 0:
		return a.Counts[f.CountQuarter()]
	case f == domain.FieldComment:
		return a.Comment
	}
	return nil
}

// validateRow checks every input of a committed row. The unit cost minimum
// only applies once the row carries a quantity, so untouched template rows
// pass.
func validateRow(m budget.CostModel, a domain.Activity) error {
	for _, f := range m.Inputs() {
		if f == domain.FieldUnitCost && !a.InUse() {
			if err := checkMinimum(a.Key(), f, a.UnitCost, decimal.Zero, a.UnitCost.String()); err != nil {
				return err
			}
			continue
		}
		v := fieldValue(a, f)
		if err := checkValue(m, a.Key(), f, v, fmt.Sprint(v)); err != nil {
			return err
		}
	}
	return nil
}

// validateDraftRow checks the constraints a saved draft must always meet.
// Unit costs only need to be non-negative until the plan is submitted.
func validateDraftRow(m budget.CostModel, a domain.Activity) error {
	for _, f := range m.Inputs() {
		if f == domain.FieldUnitCost {
			if err := checkMinimum(a.Key(), f, a.UnitCost, decimal.Zero, a.UnitCost.String()); err != nil {
				return err
			}
			continue
		}
		v := fieldValue(a, f)
		if err := checkValue(m, a.Key(), f, v, fmt.Sprint(v)); err != nil {
			return err
		}
	}
	return nil
}
