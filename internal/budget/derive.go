package budget

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CostModel selects which driver feeds each quarter's amount.
type CostModel int

const (
	// UniformQuarterly applies one Quantity to all four quarters.
	UniformQuarterly CostModel = iota + 1
	// PerQuarterCount uses Counts[q] for quarter q.
	PerQuarterCount
)

func (m CostModel) String() string {
	switch m {
	case UniformQuarterly:
		return "uniform_quarterly"
	case PerQuarterCount:
		return "per_quarter_count"
	default:
		return fmt.Sprintf("CostModel(%d)", int(m))
	}
}

// ParseCostModel maps a catalog cost_model value to a CostModel.
func ParseCostModel(s string) (CostModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform_quarterly", "uniform":
		return UniformQuarterly, nil
	case "per_quarter_count", "per_quarter":
		return PerQuarterCount, nil
	}
	return 0, fmt.Errorf("unknown cost model %q", s)
}

// MinUnitCost is the smallest unit cost a user may enter under m.
func (m CostModel) MinUnitCost() decimal.Decimal {
	if m == UniformQuarterly {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// QuarterQuantity returns the quantity driver of quarter q for a.
func (m CostModel) QuarterQuantity(a domain.Activity, q int) int {
	if m == PerQuarterCount {
		return a.Counts[q]
	}
	return a.Quantity
}

// Inputs lists the editable fields of an activity under m, in column order.
func (m CostModel) Inputs() []domain.Field {
	if m == PerQuarterCount {
		return []domain.Field{
			domain.FieldFrequency, domain.FieldUnitCost,
			domain.FieldCountQ1, domain.FieldCountQ2, domain.FieldCountQ3, domain.FieldCountQ4,
			domain.FieldComment,
		}
	}
	return []domain.Field{domain.FieldFrequency, domain.FieldUnitCost, domain.FieldQuantity, domain.FieldComment}
}

// Accepts reports whether f is an input of m.
func (m CostModel) Accepts(f domain.Field) bool {
	for _, in := range m.Inputs() {
		if in == f {
			return true
		}
	}
	return false
}

// DependsOn reports whether the derived amounts depend on f. Editing such a
// field requires the row, and then the totals, to be recomputed.
func DependsOn(f domain.Field) bool {
	return f == domain.FieldFrequency || f == domain.FieldUnitCost || f.IsQuantity()
}

// QuarterAmount is frequency × unitCost × quantity. Non-positive drivers and
// negative unit costs yield zero so an amount is never negative.
func QuarterAmount(frequency int, unitCost decimal.Decimal, quantity int) decimal.Decimal {
	if frequency <= 0 || quantity <= 0 || unitCost.IsNegative() {
		return decimal.Zero
	}
	return unitCost.Mul(decimal.NewFromInt(int64(frequency))).Mul(decimal.NewFromInt(int64(quantity)))
}

// Recompute returns a with its four quarter amounts and total rebuilt from
// the drivers. It is pure and idempotent.
func Recompute(m CostModel, a domain.Activity) domain.Activity {
	total := decimal.Zero
	for q := 0; q < domain.QuartersPerYear; q++ {
		a.Amounts[q] = QuarterAmount(a.Frequency, a.UnitCost, m.QuarterQuantity(a, q))
		total = total.Add(a.Amounts[q])
	}
	a.TotalBudget = total
	return a
}

// RecomputeAll recomputes every activity in place.
func RecomputeAll(m CostModel, activities []domain.Activity) {
	for i := range activities {
		activities[i] = Recompute(m, activities[i])
	}
}
