package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/table"
)

// FormatEditorRows renders the editable table. Data rows are numbered from 1
// in display order; aggregate rows carry no number and cannot be targeted.
// cursor is the 0-based data row to highlight, or -1.
func FormatEditorRows(rows []table.Row, model budget.CostModel, money Money, cursor int) string {
	headers := append([]string{"#"}, activityHeaders(model)...)
	align := append([]Align{AlignRight}, activityAlign(model)...)

	out := make([][]string, 0, len(rows))
	n := 0
	for _, r := range rows {
		switch row := r.(type) {
		case table.AggregateRow:
			cells := aggregateCells(row.Category, row.Amounts, row.TotalBudget, model, money)
			out = append(out, append([]string{""}, cells...))
		case table.DataRow:
			cells := activityCells(row.Activity, model, money)
			if !row.Bound() {
				for i := range cells {
					cells[i] = Dim(stripStyles(cells[i]))
				}
			}
			num := strconv.Itoa(n + 1)
			if n == cursor {
				num = StyleGreen.Bold(true).Render("▸" + num)
			}
			out = append(out, append([]string{num}, cells...))
			n++
		}
	}
	return RenderAlignedTable(headers, out, align)
}

// FormatEditorFooter renders the running totals shown under the editor.
func FormatEditorFooter(s budget.Summary, money Money) string {
	parts := make([]string, 0, len(quarterHeaders)+1)
	for q, label := range quarterHeaders {
		parts = append(parts, fmt.Sprintf("%s %s", StyleDim.Render(label), money.Amount(s.Quarters[q])))
	}
	parts = append(parts, fmt.Sprintf("%s %s", StyleDim.Render("TOTAL"), Bold(money.Format(s.GrandTotal))))
	return strings.Join(parts, "   ")
}
