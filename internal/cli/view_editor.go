package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/table"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type editorLoadedMsg struct {
	planID string
	plan   *domain.Plan
	ctrl   *table.Controller
	err    error
}

type draftSavedMsg struct {
	planID string
	plan   *domain.Plan
	err    error
}

type planSubmittedMsg struct {
	planID string
	plan   *domain.Plan
	err    error
}

// editorView edits the cost drivers of a draft plan. Amounts and totals
// follow every accepted value; the draft is saved after each change.
type editorView struct {
	state   *SharedState
	planID  string
	plan    *domain.Plan
	ctrl    *table.Controller
	loading bool
	err     error

	row int // data row, 0-based
	col int // index into the cost model's inputs

	editing bool
	input   textinput.Model
	problem string // rejected value or failed submit, shown under the table

	// One save is in flight at a time; edits made meanwhile are written by
	// a follow-up save so an older snapshot never lands last.
	saving     bool
	saveQueued bool

	// submitting blocks edits from the confirmed submit until its result
	// arrives. pendingSubmit waits for an in-flight save.
	submitting    bool
	pendingSubmit *table.Controller
}

var (
	keyEditorUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "row"))
	keyEditorDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyEditorLeft   = key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/→", "field"))
	keyEditorRight  = key.NewBinding(key.WithKeys("right", "l", "tab"))
	keyEditorEdit   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit"))
	keyEditorFill   = key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "add all"))
	keyEditorSubmit = key.NewBinding(key.WithKeys("S", "ctrl+s"), key.WithHelp("S", "submit"))
)

func newEditorView(state *SharedState, planID string) *editorView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	return &editorView{
		state:   state,
		planID:  planID,
		loading: true,
		input:   ti,
	}
}

func (v *editorView) ID() ViewID { return ViewEditor }

func (v *editorView) Title() string {
	if v.plan != nil {
		return "Edit " + v.plan.Program
	}
	return "Edit"
}

// CapturesInput holds every key while a cell is being typed into.
func (v *editorView) CapturesInput() bool { return v.editing }

func (v *editorView) ShortHelp() []key.Binding {
	if v.editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "set")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{keyEditorUp, keyEditorLeft, keyEditorEdit, keyEditorFill, keyEditorSubmit}
}

func (v *editorView) Init() tea.Cmd {
	return v.load()
}

func (v *editorView) load() tea.Cmd {
	app := v.state.App
	id := v.planID
	return func() tea.Msg {
		p, c, err := app.Plans.OpenEditor(context.Background(), id)
		return editorLoadedMsg{planID: id, plan: p, ctrl: c, err: err}
	}
}

// requestSave writes the current activities, or queues a save behind the
// one in flight.
func (v *editorView) requestSave() tea.Cmd {
	if v.saving {
		v.saveQueued = true
		return nil
	}
	v.saving = true
	return v.save()
}

func (v *editorView) save() tea.Cmd {
	app := v.state.App
	id := v.planID
	activities := v.ctrl.Activities()
	return func() tea.Msg {
		p, err := app.Plans.SaveDraft(context.Background(), id, activities)
		return draftSavedMsg{planID: id, plan: p, err: err}
	}
}

// submit sends a snapshot of the table, taken now on the UI goroutine, so
// the command never shares the live controller.
func (v *editorView) submit() tea.Cmd {
	v.submitting = true
	snapshot := v.ctrl.Snapshot()
	if v.saving {
		v.pendingSubmit = snapshot
		return nil
	}
	return v.submitSnapshot(snapshot)
}

func (v *editorView) submitSnapshot(c *table.Controller) tea.Cmd {
	app := v.state.App
	id := v.planID
	return func() tea.Msg {
		p, err := app.Plans.Submit(context.Background(), id, c)
		return planSubmittedMsg{planID: id, plan: p, err: err}
	}
}

func (v *editorView) dataRows() []table.DataRow {
	if v.ctrl == nil {
		return nil
	}
	return table.DataRows(v.ctrl.Rows())
}

func (v *editorView) field() domain.Field {
	inputs := v.ctrl.Model().Inputs()
	return inputs[min(v.col, len(inputs)-1)]
}

// owns reports whether a load or save result is for this editor's plan.
func (v *editorView) owns(planID string) bool { return planID == v.planID }

func (v *editorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorLoadedMsg:
		if !v.owns(msg.planID) {
			return v, nil
		}
		v.loading = false
		if errors.Is(msg.err, domain.ErrPlanLocked) {
			return v, tea.Batch(replaceView(newReportView(v.state, v.planID)), flashErr(msg.err))
		}
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.plan, v.ctrl = msg.plan, msg.ctrl
		if n := len(v.dataRows()); v.row >= n {
			v.row = max(0, n-1)
		}
		return v, nil

	case draftSavedMsg:
		if !v.owns(msg.planID) {
			return v, nil
		}
		v.saving = false
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, flashErr(msg.err))
		} else {
			v.plan = msg.plan
			cmds = append(cmds, refreshViews())
		}
		switch {
		case v.saveQueued:
			v.saveQueued = false
			cmds = append(cmds, v.requestSave())
		case v.pendingSubmit != nil:
			cmds = append(cmds, v.submitSnapshot(v.pendingSubmit))
			v.pendingSubmit = nil
		}
		return v, tea.Batch(cmds...)

	case planSubmittedMsg:
		if !v.owns(msg.planID) {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			v.showProblem(msg.err)
			return v, nil
		}
		return v, tea.Batch(
			replaceView(newReportView(v.state, v.planID)),
			flash(fmt.Sprintf("Submitted %s: %s", msg.plan.DisplayID(), v.state.App.Money.Format(v.ctrl.Summary().GrandTotal))),
			refreshViews(),
		)

	case refreshViewMsg:
		// Our own saves trigger refreshes; the controller is already current.
		return v, nil

	case tea.KeyMsg:
		if v.ctrl == nil || v.submitting {
			return v, nil
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *editorView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := v.dataRows()
	inputs := v.ctrl.Model().Inputs()

	switch {
	case key.Matches(msg, keyEditorUp):
		if v.row > 0 {
			v.row--
		}
	case key.Matches(msg, keyEditorDown):
		if v.row < len(rows)-1 {
			v.row++
		}
	case key.Matches(msg, keyEditorLeft):
		v.col = (v.col + len(inputs) - 1) % len(inputs)
	case key.Matches(msg, keyEditorRight):
		v.col = (v.col + 1) % len(inputs)
	case key.Matches(msg, keyEditorEdit):
		if v.row < len(rows) {
			v.problem = ""
			v.editing = true
			v.input.SetValue(cellText(rows[v.row].Activity, v.field()))
			v.input.CursorEnd()
			return v, v.input.Focus()
		}
	case key.Matches(msg, keyEditorFill):
		if added := v.ctrl.Backfill(); added > 0 {
			return v, tea.Batch(v.requestSave(), flash(fmt.Sprintf("Added %d activities", added)))
		}
		return v, flash("Every catalog activity is already in the plan.")
	case key.Matches(msg, keyEditorSubmit):
		v.problem = ""
		confirmed := false
		title := fmt.Sprintf("Submit %s (%s)? It can no longer be edited.",
			v.plan.Title(), v.state.App.Money.Format(v.ctrl.Summary().GrandTotal))
		return v, startWizardCmd(v.state, "Submit", wizardConfirm(title, &confirmed), func() tea.Cmd {
			if !confirmed {
				return flash("Cancelled.")
			}
			return v.submit()
		})
	}
	return v, nil
}

func (v *editorView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.problem = ""
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		rows := v.dataRows()
		if v.row >= len(rows) {
			v.editing = false
			return v, nil
		}
		k := rows[v.row].Activity.Key()
		if err := v.ctrl.SetByKey(k, v.field(), v.input.Value()); err != nil {
			// Stay in the cell so the value can be corrected.
			v.problem = problemText(err)
			return v, nil
		}
		v.editing = false
		v.problem = ""
		v.input.Blur()
		return v, v.requestSave()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// showProblem reports a failed submit and moves the cursor to the
// offending row when the error names one.
func (v *editorView) showProblem(err error) {
	v.problem = problemText(err)
	ve, ok := domain.AsValidationError(err)
	if !ok {
		return
	}
	for i, r := range v.dataRows() {
		if r.Activity.Key() == ve.Key {
			v.row = i
			break
		}
	}
	for i, f := range v.ctrl.Model().Inputs() {
		if f == ve.Field {
			v.col = i
			break
		}
	}
}

func problemText(err error) string {
	if ve, ok := domain.AsValidationError(err); ok {
		if ve.Value == "" {
			return fmt.Sprintf("%s %s", ve.Field, ve.Reason)
		}
		return fmt.Sprintf("%s %q %s", ve.Field, ve.Value, ve.Reason)
	}
	return err.Error()
}

// cellText is the editable text of field f.
func cellText(a domain.Activity, f domain.Field) string {
	switch {
	case f == domain.FieldFrequency:
		return strconv.Itoa(a.Frequency)
	case f == domain.FieldUnitCost:
		return a.UnitCost.String()
	case f == domain.FieldQuantity:
		return strconv.Itoa(a.Quantity)
	case f.CountQuarter() >= 0:
		return strconv.Itoa(a.Counts[f.CountQuarter()])
	case f == domain.FieldComment:
		return a.Comment
	}
	return ""
}

func (v *editorView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading plan...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if v.ctrl == nil {
		return ""
	}

	money := v.state.App.Money
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.FormatPlanMeta(v.plan))
	b.WriteString("\n")
	b.WriteString(v.renderTable())
	b.WriteString("\n")
	b.WriteString(v.renderFieldBar())
	b.WriteString("\n")
	if v.problem != "" {
		b.WriteString(formatter.StyleRed.Render("✗ "+v.problem) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatter.FormatEditorFooter(v.ctrl.Summary(), money))
	b.WriteString("\n")
	return b.String()
}

// editorChromeLines is the space taken by everything except table rows.
const editorChromeLines = 16

// renderTable keeps the table header and scrolls the body so the cursor
// row stays visible.
func (v *editorView) renderTable() string {
	rows := v.ctrl.Rows()
	out := formatter.FormatEditorRows(rows, v.ctrl.Model(), v.state.App.Money, v.row)
	if v.state.Height == 0 {
		return out
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		return out
	}
	head, body := lines[:2], lines[2:]
	height := max(3, v.state.ContentHeight()-editorChromeLines)
	if len(body) <= height {
		return out
	}

	// Body line of the cursor, counting aggregate rows.
	cursorLine, n := 0, 0
	for i, r := range rows {
		if _, ok := r.(table.DataRow); ok {
			if n == v.row {
				cursorLine = i
				break
			}
			n++
		}
	}
	start := min(max(0, cursorLine-height/2), len(body)-height)
	visible := append(append([]string{}, head...), body[start:start+height]...)
	return strings.Join(visible, "\n") + "\n" +
		formatter.Dim(fmt.Sprintf("rows %d-%d of %d", start+1, start+height, len(body))) + "\n"
}

func (v *editorView) renderFieldBar() string {
	rows := v.dataRows()
	if len(rows) == 0 {
		return formatter.Dim("No activities. Press b to add every catalog activity.")
	}
	current := v.field()

	if v.editing {
		return formatter.StyleYellow.Render(string(current)) + " › " + v.input.View()
	}

	parts := make([]string, 0, len(v.ctrl.Model().Inputs()))
	for _, f := range v.ctrl.Model().Inputs() {
		if f == current {
			parts = append(parts, formatter.StyleGreen.Bold(true).Render("["+string(f)+"]"))
		} else {
			parts = append(parts, formatter.Dim(string(f)))
		}
	}
	a := rows[v.row].Activity
	return strings.Join(parts, " ") + "   " +
		formatter.Dim(a.Key().String()+": ") + cellText(a, current)
}
