package budget

import (
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quarters is one amount per quarter.
type Quarters [domain.QuartersPerYear]decimal.Decimal

// Sum returns the total across the four quarters.
func (q Quarters) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range q {
		total = total.Add(v)
	}
	return total
}

// CategorySummary aggregates the activities of one category.
type CategorySummary struct {
	Category   string
	Quarters   Quarters
	Total      decimal.Decimal
	Share      int
	Activities []domain.Activity
}

// Summary is the full aggregate view of a set of activities. It backs both
// the editing table footer and the read-only report.
type Summary struct {
	Quarters      Quarters
	QuarterShares [domain.QuartersPerYear]int
	GrandTotal    decimal.Decimal
	Categories    []CategorySummary
}

// QuarterTotal sums the amounts of quarter q (0-based).
func QuarterTotal(activities []domain.Activity, q int) decimal.Decimal {
	total := decimal.Zero
	for _, a := range activities {
		total = total.Add(a.Amounts[q])
	}
	return total
}

// QuarterTotals returns the four quarter sums.
func QuarterTotals(activities []domain.Activity) Quarters {
	var qs Quarters
	for q := range qs {
		qs[q] = QuarterTotal(activities, q)
	}
	return qs
}

// GrandTotal is the sum of the four quarter totals; zero for no activities.
func GrandTotal(activities []domain.Activity) decimal.Decimal {
	return QuarterTotals(activities).Sum()
}

// CategoryTotals sums TotalBudget per category.
func CategoryTotals(activities []domain.Activity) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, a := range activities {
		totals[a.Category] = totals[a.Category].Add(a.TotalBudget)
	}
	return totals
}

// Percentage returns part as a whole-number percentage of whole, rounded half
// away from zero. A zero whole yields 0.
func Percentage(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	return int(part.Mul(hundred).Div(whole).Round(0).IntPart())
}

// CategoryBreakdown groups activities by category in order of first
// appearance, with quarter sums and each category's share of the grand total.
func CategoryBreakdown(activities []domain.Activity) []CategorySummary {
	grand := GrandTotal(activities)

	index := make(map[string]int)
	var out []CategorySummary
	for _, a := range activities {
		i, ok := index[a.Category]
		if !ok {
			i = len(out)
			index[a.Category] = i
			out = append(out, CategorySummary{Category: a.Category, Total: decimal.Zero})
		}
		cs := &out[i]
		for q := range cs.Quarters {
			cs.Quarters[q] = cs.Quarters[q].Add(a.Amounts[q])
		}
		cs.Total = cs.Total.Add(a.TotalBudget)
		cs.Activities = append(cs.Activities, a)
	}
	for i := range out {
		out[i].Share = Percentage(out[i].Total, grand)
	}
	return out
}

// Summarize computes the quarter totals and shares, the grand total and the
// category breakdown of activities.
func Summarize(activities []domain.Activity) Summary {
	s := Summary{
		Quarters:   QuarterTotals(activities),
		Categories: CategoryBreakdown(activities),
	}
	s.GrandTotal = s.Quarters.Sum()
	for q := range s.QuarterShares {
		s.QuarterShares[q] = Percentage(s.Quarters[q], s.GrandTotal)
	}
	return s
}

// Category returns the summary of the named category.
func (s Summary) Category(name string) (CategorySummary, bool) {
	for _, c := range s.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return CategorySummary{}, false
}
