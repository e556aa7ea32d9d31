package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/fyplan/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Uniform model input columns.
const (
	colUnitCost = 1
	colQuantity = 2
)

func loadedEditor(t *testing.T, app *App, planID string) *editorView {
	t.Helper()
	v := newEditorView(&SharedState{App: app}, planID)
	_, _ = v.Update(v.load()())
	require.NotNil(t, v.ctrl)
	return v
}

// setCell types value into the first row's cell at col and commits it.
func setCell(t *testing.T, v *editorView, col int, value string) tea.Cmd {
	t.Helper()
	v.row, v.col = 0, col
	v.editing = true
	v.input.SetValue(value)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, v.problem)
	return cmd
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmd(c)...)
	}
	return out
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if got, ok := m.(T); ok {
			return got
		}
	}
	var zero T
	require.Failf(t, "message not found", "%T not in %v", zero, msgs)
	return zero
}

func storedQuantity(t *testing.T, app *App, planID string) int {
	t.Helper()
	got, err := app.Plans.Get(context.Background(), planID)
	require.NoError(t, err)
	return got.Activities[0].Quantity
}

func TestEditorView_SavesRunOneAtATime(t *testing.T) {
	app := testApp(t)
	p := seedMalariaPlan(t, app)
	v := loadedEditor(t, app, p.ID)

	first := setCell(t, v, colQuantity, "2")
	require.NotNil(t, first)
	assert.Nil(t, setCell(t, v, colQuantity, "5"), "second edit waits for the first save")

	saved := findMsg[draftSavedMsg](t, runCmd(first))
	require.NoError(t, saved.err)
	assert.Equal(t, 2, storedQuantity(t, app, p.ID))

	_, next := v.Update(saved)
	followUp := findMsg[draftSavedMsg](t, runCmd(next))
	require.NoError(t, followUp.err)
	assert.Equal(t, 5, storedQuantity(t, app, p.ID))

	_, last := v.Update(followUp)
	for _, m := range runCmd(last) {
		_, isSave := m.(draftSavedMsg)
		assert.False(t, isSave, "nothing left to save")
	}
	assert.False(t, v.saving)
}

func TestEditorView_SubmitUsesSnapshotAndLocksKeys(t *testing.T) {
	app := testApp(t)
	p := seedMalariaPlan(t, app)
	v := loadedEditor(t, app, p.ID)

	for _, edit := range []struct {
		col   int
		value string
	}{{colUnitCost, "2500"}, {colQuantity, "4"}} {
		_, _ = v.Update(findMsg[draftSavedMsg](t, runCmd(setCell(t, v, edit.col, edit.value))))
	}

	cmd := v.submit()
	require.NotNil(t, cmd)
	assert.True(t, v.submitting)

	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, v.row, "keys are ignored while submitting")
	assert.False(t, v.editing)

	// A change to the live table after submit must not reach the store.
	key := v.dataRows()[0].Activity.Key()
	require.NoError(t, v.ctrl.SetByKey(key, domain.FieldQuantity, "9"))

	submitted := findMsg[planSubmittedMsg](t, runCmd(cmd))
	require.NoError(t, submitted.err)
	assert.Equal(t, domain.PlanSubmitted, submitted.plan.Status)
	assert.Equal(t, 4, storedQuantity(t, app, p.ID))

	_, _ = v.Update(submitted)
	assert.False(t, v.submitting)
}

func TestEditorView_SubmitWaitsForInFlightSave(t *testing.T) {
	app := testApp(t)
	p := seedMalariaPlan(t, app)
	v := loadedEditor(t, app, p.ID)

	_, _ = v.Update(findMsg[draftSavedMsg](t, runCmd(setCell(t, v, colUnitCost, "2500"))))
	save := setCell(t, v, colQuantity, "3")
	require.NotNil(t, save)

	assert.Nil(t, v.submit(), "submit is held until the save lands")
	assert.True(t, v.submitting)

	_, next := v.Update(findMsg[draftSavedMsg](t, runCmd(save)))
	submitted := findMsg[planSubmittedMsg](t, runCmd(next))
	require.NoError(t, submitted.err)
	assert.Equal(t, 3, storedQuantity(t, app, p.ID))

	got, err := app.Plans.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanSubmitted, got.Status)
}

func TestEditorView_FailedSubmitUnlocksKeys(t *testing.T) {
	app := testApp(t)
	p := seedMalariaPlan(t, app)
	v := loadedEditor(t, app, p.ID)

	// Quantity without a unit cost fails the submit-time minimum.
	_, _ = v.Update(findMsg[draftSavedMsg](t, runCmd(setCell(t, v, colQuantity, "2"))))
	submitted := findMsg[planSubmittedMsg](t, runCmd(v.submit()))
	require.Error(t, submitted.err)

	_, _ = v.Update(submitted)
	assert.False(t, v.submitting)
	_, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, v.editing)
}
