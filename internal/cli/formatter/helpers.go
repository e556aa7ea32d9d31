package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// StatusPill returns a colored status indicator for a plan.
func StatusPill(status domain.PlanStatus) string {
	style := StatusColor(status)
	switch status {
	case domain.PlanDraft:
		return style.Render("○ " + status.Label())
	case domain.PlanSubmitted:
		return style.Render("◐ " + status.Label())
	case domain.PlanPendingApproval:
		return style.Render("◑ " + status.Label())
	case domain.PlanApproved:
		return style.Render("✔ " + status.Label())
	default:
		return style.Render(string(status))
	}
}

// FacilityBadge labels a facility type.
func FacilityBadge(t domain.FacilityType) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(t.Label())
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Ago renders t relative to now, e.g. "3 hours ago".
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Truncate shortens s to n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func stripStyles(s string) string {
	return ansi.Strip(s)
}
