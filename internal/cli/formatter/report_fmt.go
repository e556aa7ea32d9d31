package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/shopspring/decimal"
)

var quarterHeaders = []string{"Q1", "Q2", "Q3", "Q4"}

// activityHeaders returns the column headers of an activity row under m.
func activityHeaders(m budget.CostModel) []string {
	h := []string{"ACTIVITY", "TYPE", "FREQ", "UNIT COST"}
	if m == budget.PerQuarterCount {
		h = append(h, "C1", "C2", "C3", "C4")
	} else {
		h = append(h, "QTY")
	}
	h = append(h, quarterHeaders...)
	return append(h, "TOTAL")
}

func activityAlign(m budget.CostModel) []Align {
	n := len(activityHeaders(m))
	align := make([]Align, n)
	for i := 2; i < n; i++ {
		align[i] = AlignRight
	}
	return align
}

func activityCells(a domain.Activity, m budget.CostModel, money Money) []string {
	name := a.Activity
	if name == "" {
		name = Dim("--")
	}
	cells := []string{
		Truncate(name, 36),
		Truncate(a.TypeOfActivity, 24),
		strconv.Itoa(a.Frequency),
		money.Unit(a.UnitCost),
	}
	if m == budget.PerQuarterCount {
		for _, c := range a.Counts {
			cells = append(cells, strconv.Itoa(c))
		}
	} else {
		cells = append(cells, strconv.Itoa(a.Quantity))
	}
	for _, amt := range a.Amounts {
		cells = append(cells, money.Amount(amt))
	}
	return append(cells, Bold(money.Amount(a.TotalBudget)))
}

// aggregateCells renders a read-only category total line aligned with
// the activity columns.
func aggregateCells(label string, q budget.Quarters, total decimal.Decimal, m budget.CostModel, money Money) []string {
	cells := []string{StyleHeader.Render(label)}
	pad := len(activityHeaders(m)) - len(quarterHeaders) - 2
	for i := 0; i < pad; i++ {
		cells = append(cells, "")
	}
	for _, amt := range q {
		cells = append(cells, StyleYellow.Render(money.Amount(amt)))
	}
	return append(cells, StyleYellow.Bold(true).Render(money.Amount(total)))
}

// FormatReport renders a persisted plan: its metadata, one table per
// category headed by the category total, then the quarter and category
// breakdown.
func FormatReport(r *service.Report, money Money) string {
	var b strings.Builder
	b.WriteString(FormatPlanMeta(r.Plan))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", "PERIODS")), strings.Join(r.Periods, ", ")))
	b.WriteString("\n")

	if len(r.Summary.Categories) == 0 {
		b.WriteString(Dim("This plan has no activities."))
		return RenderBox(r.Plan.Title(), b.String())
	}

	headers := activityHeaders(r.Model)
	align := activityAlign(r.Model)
	for _, cs := range r.Summary.Categories {
		b.WriteString(Header(cs.Category))
		b.WriteString("\n")
		rows := make([][]string, 0, len(cs.Activities)+1)
		rows = append(rows, categoryTotalCells(cs, r.Model, money))
		for _, a := range cs.Activities {
			rows = append(rows, activityCells(a, r.Model, money))
		}
		b.WriteString(RenderAlignedTable(headers, rows, align))
		b.WriteString("\n")
	}

	b.WriteString(FormatSummary(r.Summary, r.Periods, money))
	return RenderBox(r.Plan.Title(), b.String())
}

func categoryTotalCells(cs budget.CategorySummary, m budget.CostModel, money Money) []string {
	return aggregateCells("Total "+cs.Category, cs.Quarters, cs.Total, m, money)
}

// FormatSummary renders the grand total, the quarter totals with their share
// of the year and each category's share.
func FormatSummary(s budget.Summary, periods []string, money Money) string {
	var b strings.Builder
	b.WriteString(Header("Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleDim.Render("GRAND TOTAL"), Bold(money.Format(s.GrandTotal))))

	qRows := make([][]string, 0, domain.QuartersPerYear)
	for q := 0; q < domain.QuartersPerYear; q++ {
		label := quarterHeaders[q]
		if q < len(periods) {
			label = periods[q]
		}
		qRows = append(qRows, []string{label, money.Amount(s.Quarters[q]), RenderShare(s.QuarterShares[q], 20)})
	}
	b.WriteString(RenderAlignedTable([]string{"PERIOD", "AMOUNT", "SHARE"}, qRows, []Align{AlignLeft, AlignRight, AlignLeft}))

	if len(s.Categories) > 0 {
		b.WriteString("\n")
		cRows := make([][]string, 0, len(s.Categories))
		for _, cs := range s.Categories {
			cRows = append(cRows, []string{cs.Category, money.Amount(cs.Total), RenderShare(cs.Share, 20)})
		}
		b.WriteString(RenderAlignedTable([]string{"CATEGORY", "AMOUNT", "SHARE"}, cRows, []Align{AlignLeft, AlignRight, AlignLeft}))
	}
	return strings.TrimRight(b.String(), "\n")
}
