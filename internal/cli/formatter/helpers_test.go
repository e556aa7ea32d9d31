package formatter

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences so assertions see plain text.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestStatusPill_LabelsEveryStatus(t *testing.T) {
	tests := []struct {
		status domain.PlanStatus
		want   string
	}{
		{domain.PlanDraft, "○ Draft"},
		{domain.PlanSubmitted, "◐ Submitted"},
		{domain.PlanPendingApproval, "◑ Pending Approval"},
		{domain.PlanApproved, "✔ Approved"},
		{domain.PlanStatus("archived"), "archived"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(StatusPill(tt.status)))
		})
	}
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef12-3456-7890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestAgo(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 hours ago", Ago(now.Add(-3*time.Hour), now))
	assert.Equal(t, "--", Ago(time.Time{}, now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Kabgayi", Truncate("Kabgayi", 10))
	assert.Equal(t, "Kabg…", Truncate("Kabgayi", 5))
	assert.Equal(t, "…", Truncate("Kabgayi", 1))
	assert.Equal(t, "Kabgayi", Truncate("Kabgayi", 0))
}

func TestFacilityBadge(t *testing.T) {
	assert.Equal(t, "Health Center", stripANSI(FacilityBadge(domain.FacilityHealthCenter)))
	assert.Equal(t, "--", stripANSI(FacilityBadge("")))
}

func TestError_PrefixesMarker(t *testing.T) {
	assert.Equal(t, "✖ boom", stripANSI(Error(errors.New("boom"))))
}

func TestRenderBox_IncludesUpperCasedTitle(t *testing.T) {
	out := stripANSI(RenderBox("plans", "body"))
	assert.Contains(t, out, "PLANS")
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "╭")
}
