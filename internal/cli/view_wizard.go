package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// wizardView wraps a huh.Form as a View on the navigation stack.
// When the form completes, it sends a wizardCompleteMsg with the
// done callback's result, allowing chained multi-step wizards.
type wizardView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
}

func newWizardView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *wizardView {
	return &wizardView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels the wizard.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return wizardCompleteMsg{nextCmd: flash("Cancelled.")} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		var doneCmd tea.Cmd
		if v.done != nil {
			doneCmd = v.done()
		}
		return v, func() tea.Msg {
			return wizardCompleteMsg{nextCmd: tea.Batch(cmd, doneCmd)}
		}
	case huh.StateAborted:
		return v, func() tea.Msg { return wizardCompleteMsg{nextCmd: flash("Cancelled.")} }
	}

	return v, cmd
}

func (v *wizardView) View() string {
	return "\n" + v.form.View()
}

func (v *wizardView) ID() ViewID    { return ViewForm }
func (v *wizardView) Title() string { return v.titleStr }
func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// startWizardCmd pushes a wizardView. If form is nil (no options
// available), it calls done() directly.
func startWizardCmd(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) tea.Cmd {
	if form == nil {
		if done != nil {
			return done()
		}
		return nil
	}
	return pushView(newWizardView(state, title, form, done))
}

// newPlanWizardCmd walks through facility and program selection, then
// creates the plan and opens it in the editor.
func newPlanWizardCmd(state *SharedState, facility string) tea.Cmd {
	app := state.App
	req := &planWizardResult{facility: facility}

	pickProgram := func() tea.Cmd {
		programs := app.Resolver.ProgramsAt(req.facility)
		if len(programs) == 1 {
			req.program = programs[0]
			return req.create(state)
		}
		form := wizardSelectProgram(programs, &req.program)
		if form == nil {
			return flashErr(errNoPrograms(req.facility))
		}
		return startWizardCmd(state, "New plan", form, func() tea.Cmd { return req.create(state) })
	}

	if facility != "" {
		return pickProgram()
	}
	form := wizardSelectFacility(app, &req.facility)
	if form == nil {
		return flash("No facilities available.")
	}
	return startWizardCmd(state, "New plan", form, pickProgram)
}

type planWizardResult struct {
	facility string
	program  string
}

// planCreatedMsg reports the outcome of the new-plan wizard. The appModel
// opens the editor on success.
type planCreatedMsg struct {
	plan *domain.Plan
	err  error
}

func (r *planWizardResult) create(state *SharedState) tea.Cmd {
	app := state.App
	req := service.NewPlanRequest{Facility: r.facility, Program: r.program}
	return func() tea.Msg {
		s := app.session()
		req.District, req.Province = s.District, s.Province
		p, err := app.Plans.Create(context.Background(), req)
		return planCreatedMsg{plan: p, err: err}
	}
}

func errNoPrograms(facility string) error {
	return fmt.Errorf("no programs run at %s", facility)
}
