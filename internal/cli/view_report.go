package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type reportLoadedMsg struct {
	planID string
	report *service.Report
	err    error
}

// planAdvancedMsg reports the outcome of moving a plan to its next status.
type planAdvancedMsg struct {
	planID string
	plan   *domain.Plan
	err    error
}

type planDeletedMsg struct {
	id  string
	err error
}

// reportView shows the read-only plan detail in a scrollable viewport.
type reportView struct {
	state   *SharedState
	planID  string
	report  *service.Report
	vp      viewport.Model
	loading bool
	err     error
}

func newReportView(state *SharedState, planID string) *reportView {
	vp := viewport.New(state.Width, max(1, state.ContentHeight()-1))
	vp.KeyMap = reportViewportKeyMap()
	vp.MouseWheelEnabled = true
	return &reportView{
		state:   state,
		planID:  planID,
		vp:      vp,
		loading: true,
	}
}

// reportViewportKeyMap scrolls with arrows and page keys only, leaving
// letters free for the view's own actions.
func reportViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (v *reportView) ID() ViewID { return ViewReport }

func (v *reportView) Title() string {
	if v.report != nil {
		return v.report.Plan.Program + " " + v.report.Plan.FiscalYear
	}
	return "Report"
}

func (v *reportView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
	}
	if v.report != nil && v.report.Plan.Status == domain.PlanDraft {
		bindings = append(bindings,
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		)
	}
	if v.report == nil {
		return bindings
	}
	if _, ok := v.report.Plan.Status.Next(); ok {
		bindings = append(bindings, key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advance")))
	}
	return bindings
}

func (v *reportView) Init() tea.Cmd {
	return v.load()
}

func (v *reportView) load() tea.Cmd {
	app := v.state.App
	id := v.planID
	return func() tea.Msg {
		r, err := app.Reports.Load(context.Background(), id)
		return reportLoadedMsg{planID: id, report: r, err: err}
	}
}

func (v *reportView) advance() tea.Cmd {
	app := v.state.App
	id := v.planID
	return func() tea.Msg {
		p, err := app.Plans.Advance(context.Background(), id)
		return planAdvancedMsg{planID: id, plan: p, err: err}
	}
}

func (v *reportView) confirmDelete() tea.Cmd {
	app := v.state.App
	id := v.planID
	confirmed := false
	form := wizardConfirm("Delete this plan?", &confirmed)
	return startWizardCmd(v.state, "Delete", form, func() tea.Cmd {
		if !confirmed {
			return flash("Cancelled.")
		}
		return func() tea.Msg {
			return planDeletedMsg{id: id, err: app.Plans.Delete(context.Background(), id)}
		}
	})
}

func (v *reportView) setContent() {
	if v.report == nil {
		return
	}
	v.vp.SetContent(formatter.FormatReport(v.report, v.state.App.Money))
}

func (v *reportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.planID != v.planID {
			return v, nil
		}
		v.loading = false
		if errors.Is(msg.err, domain.ErrNotFound) {
			// Deleted elsewhere; fall back to the list.
			return v, tea.Batch(
				replaceView(newPlanListView(v.state, repository.PlanFilter{})),
				flashErr(fmt.Errorf("plan %s: %w", v.planID[:min(8, len(v.planID))], msg.err)),
			)
		}
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.report = msg.report
		v.setContent()
		return v, nil

	case planAdvancedMsg:
		if msg.planID != v.planID {
			return v, nil
		}
		if msg.err != nil {
			return v, flashErr(msg.err)
		}
		return v, tea.Batch(
			flash(fmt.Sprintf("%s is now %s", msg.plan.DisplayID(), msg.plan.Status.Label())),
			refreshViews(),
		)

	case planDeletedMsg:
		if msg.id != v.planID {
			return v, nil
		}
		if msg.err != nil {
			return v, flashErr(msg.err)
		}
		return v, tea.Batch(popView(), flash("Deleted plan "+msg.id[:min(8, len(msg.id))]), refreshViews())

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = max(1, v.state.ContentHeight()-1)
		v.setContent()
		return v, nil

	case tea.KeyMsg:
		if v.report != nil {
			status := v.report.Plan.Status
			switch msg.String() {
			case "e":
				if status == domain.PlanDraft {
					return v, pushView(newEditorView(v.state, v.planID))
				}
				return v, flashErr(fmt.Errorf("%s is %s: %w", v.report.Plan.DisplayID(), status.Label(), domain.ErrPlanLocked))
			case "a":
				return v, v.advance()
			case "d":
				if status == domain.PlanDraft {
					return v, v.confirmDelete()
				}
			}
		}
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *reportView) View() string {
	if v.loading && v.report == nil {
		return "\n  " + formatter.Dim("Loading plan...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if v.report == nil {
		return ""
	}
	// Before the first resize there is no height to scroll within.
	if v.state.Height == 0 {
		return "\n" + formatter.FormatReport(v.report, v.state.App.Money)
	}
	return "\n" + v.vp.View()
}
