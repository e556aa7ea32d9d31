package table

import (
	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Row is one rendered line of the table: a DataRow or an AggregateRow.
type Row interface {
	isRow()
}

// DataRow renders one activity. Unbound rows show a template entry that has
// no committed activity yet.
type DataRow struct {
	Position Position
	Activity domain.Activity
}

func (DataRow) isRow() {}

func (r DataRow) Bound() bool { return r.Position.Bound() }

// AggregateRow is the read-only total line heading a category. It has no
// position and can never be edited.
type AggregateRow struct {
	Category    string
	Amounts     budget.Quarters
	TotalBudget decimal.Decimal
	Share       int
}

func (AggregateRow) isRow() {}

// Rows lays the table out category by category in catalog order. Each
// category starts with its AggregateRow followed by its template entries and
// then any committed activities the catalog does not list.
func (c *Controller) Rows() []Row {
	summary := c.Summary()

	var categories []string
	byCategory := map[string][]domain.ActivityKey{}
	addCategory := func(name string) {
		if _, ok := byCategory[name]; !ok {
			byCategory[name] = nil
			categories = append(categories, name)
		}
	}
	inLayout := make(map[domain.ActivityKey]bool, len(c.layout))
	for _, k := range c.layout {
		addCategory(k.Category)
		byCategory[k.Category] = append(byCategory[k.Category], k)
		inLayout[k] = true
	}
	for _, a := range c.activities {
		addCategory(a.Category)
		if !inLayout[a.Key()] {
			byCategory[a.Category] = append(byCategory[a.Category], a.Key())
		}
	}

	rows := make([]Row, 0, len(categories)+len(c.layout)+len(c.activities))
	for _, name := range categories {
		agg := AggregateRow{Category: name, TotalBudget: decimal.Zero}
		if cs, ok := summary.Category(name); ok {
			agg.Amounts = cs.Quarters
			agg.TotalBudget = cs.Total
			agg.Share = cs.Share
		}
		rows = append(rows, agg)
		for _, k := range byCategory[name] {
			a, pos := c.GetOrCreate(k)
			rows = append(rows, DataRow{Position: pos, Activity: a})
		}
	}
	return rows
}

// DataRows filters rows down to its data rows, keeping order. The CLI and
// the editor number rows by their index in this slice.
func DataRows(rows []Row) []DataRow {
	out := make([]DataRow, 0, len(rows))
	for _, r := range rows {
		if dr, ok := r.(DataRow); ok {
			out = append(out, dr)
		}
	}
	return out
}
