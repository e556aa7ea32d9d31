package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nurses = domain.ActivityKey{Category: "HR", TypeOfActivity: "Salaries", Activity: "Nurses"}
	fuel   = domain.ActivityKey{Category: "Travel", TypeOfActivity: "Transport", Activity: "Fuel"}
)

func TestFormatEditorRows_NumbersDataRowsOnly(t *testing.T) {
	c, err := table.New(budget.UniformQuarterly, []domain.ActivityKey{nurses, fuel}, []domain.Activity{domain.NewActivity(fuel)})
	require.NoError(t, err)
	require.NoError(t, c.SetByKey(fuel, domain.FieldUnitCost, "250"))
	require.NoError(t, c.SetByKey(fuel, domain.FieldQuantity, "2"))

	out := stripANSI(FormatEditorRows(c.Rows(), c.Model(), DefaultMoney(), 1))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6, out)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "HR"), lines[2])
	assert.Contains(t, lines[3], "1")
	assert.Contains(t, lines[3], "Nurses")
	assert.Contains(t, lines[4], "Travel")
	assert.Contains(t, lines[5], "▸2")
	assert.Contains(t, lines[5], "Fuel")
	assert.Contains(t, lines[5], "2,000")
}

func TestFormatEditorFooter(t *testing.T) {
	s := budget.Summary{GrandTotal: decimalOf(t, "1000")}
	s.Quarters[0] = decimalOf(t, "1000")

	out := stripANSI(FormatEditorFooter(s, DefaultMoney()))

	assert.Contains(t, out, "Q1 1,000")
	assert.Contains(t, out, "Q4 0")
	assert.Contains(t, out, "TOTAL RWF 1,000")
}
