package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
)

// FormatPlanList renders plans inside a bordered box, newest first as given.
func FormatPlanList(plans []*domain.Plan, money Money, now time.Time) string {
	if len(plans) == 0 {
		return RenderBox("Plans", Dim("No plans yet. Create one with 'fyplan plan new'."))
	}

	headers := []string{"ID", "FACILITY", "PROGRAM", "FY", "STATUS", "TOTAL", "UPDATED"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(Truncate(p.FacilityName, 28)),
			p.Program,
			p.FiscalYear,
			StatusPill(p.Status),
			money.Amount(budget.GrandTotal(p.Activities)),
			Dim(Ago(p.UpdatedAt, now)),
		})
	}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}
	return RenderBox("Plans", RenderAlignedTable(headers, rows, align))
}

// FormatPlanMeta renders the key/value header shared by the report and the
// editor.
func FormatPlanMeta(p *domain.Plan) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	line("FACILITY", Bold(p.FacilityName)+"  "+FacilityBadge(p.FacilityType))
	if p.District != "" || p.Province != "" {
		line("LOCATION", strings.Trim(p.District+", "+p.Province, ", "))
	}
	line("PROGRAM", p.Program)
	line("FY", p.FiscalYear)
	line("STATUS", StatusPill(p.Status))
	line("ID", TruncID(p.ID))
	if p.SubmittedAt != nil {
		line("SUBMITTED", p.SubmittedAt.Format("2006-01-02"))
	}
	if p.ApprovedAt != nil {
		line("APPROVED", p.ApprovedAt.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}
