package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuartersPerYear is the number of reporting quarters in a fiscal year.
const QuartersPerYear = 4

// ActivityKey identifies an activity within a plan. No two activities in the
// same plan may share a key.
type ActivityKey struct {
	Category       string
	TypeOfActivity string
	Activity       string
}

func (k ActivityKey) String() string {
	if k.Activity == "" {
		return fmt.Sprintf("%s / %s", k.Category, k.TypeOfActivity)
	}
	return fmt.Sprintf("%s / %s / %s", k.Category, k.TypeOfActivity, k.Activity)
}

// Activity is one budget line of a plan.
//
// Frequency, UnitCost, Quantity and Counts are the cost drivers. Amounts and
// TotalBudget are derived from them and must only be written by the
// derivation engine.
type Activity struct {
	ID             string
	Category       string
	TypeOfActivity string
	Activity       string

	Frequency int
	UnitCost  decimal.Decimal
	Quantity  int
	Counts    [QuartersPerYear]int

	Amounts     [QuartersPerYear]decimal.Decimal
	TotalBudget decimal.Decimal

	Comment string
}

// NewActivity returns a zero-valued activity for key. Frequency starts at 1
// so the row is valid before the user touches it.
func NewActivity(key ActivityKey) Activity {
	return Activity{
		Category:       key.Category,
		TypeOfActivity: key.TypeOfActivity,
		Activity:       key.Activity,
		Frequency:      1,
	}
}

func (a Activity) Key() ActivityKey {
	return ActivityKey{
		Category:       a.Category,
		TypeOfActivity: a.TypeOfActivity,
		Activity:       a.Activity,
	}
}

// InUse reports whether any quantity driver is non-zero.
func (a Activity) InUse() bool {
	if a.Quantity != 0 {
		return true
	}
	for _, c := range a.Counts {
		if c != 0 {
			return true
		}
	}
	return false
}

// Field names an editable or derived column of an activity row.
type Field string

const (
	FieldFrequency Field = "frequency"
	FieldUnitCost  Field = "unit_cost"
	FieldQuantity  Field = "quantity"
	FieldCountQ1   Field = "count_q1"
	FieldCountQ2   Field = "count_q2"
	FieldCountQ3   Field = "count_q3"
	FieldCountQ4   Field = "count_q4"
	FieldComment   Field = "comment"

	FieldAmountQ1    Field = "amount_q1"
	FieldAmountQ2    Field = "amount_q2"
	FieldAmountQ3    Field = "amount_q3"
	FieldAmountQ4    Field = "amount_q4"
	FieldTotalBudget Field = "total_budget"
)

var countFields = [QuartersPerYear]Field{FieldCountQ1, FieldCountQ2, FieldCountQ3, FieldCountQ4}

var amountFields = [QuartersPerYear]Field{FieldAmountQ1, FieldAmountQ2, FieldAmountQ3, FieldAmountQ4}

// CountField returns the per-quarter count field for quarter q (0-based).
func CountField(q int) Field {
	return countFields[q]
}

// AmountField returns the derived amount field for quarter q (0-based).
func AmountField(q int) Field {
	return amountFields[q]
}

// CountQuarter returns the 0-based quarter of a count field, or -1.
func (f Field) CountQuarter() int {
	for i, cf := range countFields {
		if cf == f {
			return i
		}
	}
	return -1
}

// IsDerived reports whether f is computed rather than entered.
func (f Field) IsDerived() bool {
	if f == FieldTotalBudget {
		return true
	}
	for _, af := range amountFields {
		if af == f {
			return true
		}
	}
	return false
}

// IsQuantity reports whether f is a non-negative quantity driver.
func (f Field) IsQuantity() bool {
	return f == FieldQuantity || f.CountQuarter() >= 0
}

var knownFields = map[string]Field{
	"frequency":    FieldFrequency,
	"freq":         FieldFrequency,
	"unit_cost":    FieldUnitCost,
	"unitcost":     FieldUnitCost,
	"quantity":     FieldQuantity,
	"qty":          FieldQuantity,
	"count_q1":     FieldCountQ1,
	"count_q2":     FieldCountQ2,
	"count_q3":     FieldCountQ3,
	"count_q4":     FieldCountQ4,
	"q1":           FieldCountQ1,
	"q2":           FieldCountQ2,
	"q3":           FieldCountQ3,
	"q4":           FieldCountQ4,
	"comment":      FieldComment,
	"amount_q1":    FieldAmountQ1,
	"amount_q2":    FieldAmountQ2,
	"amount_q3":    FieldAmountQ3,
	"amount_q4":    FieldAmountQ4,
	"total_budget": FieldTotalBudget,
	"total":        FieldTotalBudget,
}

// ParseField maps user input such as "qty" or "unit_cost" to a Field.
func ParseField(s string) (Field, error) {
	if f, ok := knownFields[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}
