package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 26

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Width(cardWidth).
	Padding(0, 1)

func facilityCard(c service.FacilityCard, accent lipgloss.Style) string {
	plans := Dim("no plans")
	if c.Plans > 0 {
		plans = StyleGreen.Render(fmt.Sprintf("%d plan", c.Plans))
		if c.Plans != 1 {
			plans = StyleGreen.Render(fmt.Sprintf("%d plans", c.Plans))
		}
	}
	return cardStyle.Render(accent.Render(Truncate(c.Name, cardWidth-2)) + "\n" + plans)
}

// FormatDashboard renders the hospital card, its programs, one page of
// supervised health centers and the page controls. pending is a page the
// user asked for that has not loaded yet, or 0.
func FormatDashboard(d *service.Dashboard, pending int) string {
	var b strings.Builder

	loc := strings.Trim(d.District+", "+d.Province, ", ")
	b.WriteString(facilityCard(d.Hospital, StyleBold))
	b.WriteString("\n")
	if loc != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("LOCATION"), loc))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("FY      "), d.FiscalYear))
	if len(d.Periods) > 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PERIODS "), strings.Join(d.Periods, ", ")))
	}
	programs := Dim("none")
	if len(d.Programs) > 0 {
		tags := make([]string, len(d.Programs))
		for i, p := range d.Programs {
			tags[i] = StylePurple.Render(p)
		}
		programs = strings.Join(tags, "  ")
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleDim.Render("PROGRAMS"), programs))

	b.WriteString(Header(fmt.Sprintf("Health centers (%d)", d.TotalCenters)))
	b.WriteString("\n")
	if len(d.HealthCenters) == 0 {
		b.WriteString(Dim("No supervised health centers."))
		return RenderBox("Dashboard", b.String())
	}

	cards := make([]string, len(d.HealthCenters))
	for i, c := range d.HealthCenters {
		cards[i] = facilityCard(c, StyleBlue)
	}
	const perRow = 2
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatPageWindow(d.Page, d.Window, pending))
	return RenderBox("Dashboard", b.String())
}

// FormatPageWindow renders pagination controls like "‹ 1 … 4 [5] 6 … 9 ›".
func FormatPageWindow(p pager.Page, items []pager.Item, pending int) string {
	var parts []string
	if p.HasPrev() {
		parts = append(parts, "‹")
	} else {
		parts = append(parts, Dim("‹"))
	}
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, Dim("…"))
		case it.Current:
			parts = append(parts, StyleHeader.Render("["+strconv.Itoa(it.Page)+"]"))
		case it.Page == pending:
			parts = append(parts, StyleYellow.Render(strconv.Itoa(it.Page)))
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	if p.HasNext() {
		parts = append(parts, "›")
	} else {
		parts = append(parts, Dim("›"))
	}
	line := strings.Join(parts, " ")
	if pending > 0 && pending != p.Number {
		line += "  " + StyleYellow.Render(fmt.Sprintf("loading page %d…", pending))
	}
	return line
}
