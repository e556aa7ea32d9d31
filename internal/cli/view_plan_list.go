package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/fyplan/internal/budget"
	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/domain"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// plansLoadedMsg signals that the plan list has been loaded.
type plansLoadedMsg struct {
	scope repository.PlanFilter
	plans []*domain.Plan
	err   error
}

// planListView shows a navigable list of plans. Enter opens the report,
// e opens a draft in the editor.
type planListView struct {
	state   *SharedState
	scope   repository.PlanFilter
	plans   []*domain.Plan
	cursor  int
	loading bool
	err     error

	filtering bool
	filter    string
}

func newPlanListView(state *SharedState, scope repository.PlanFilter) *planListView {
	return &planListView{
		state:   state,
		scope:   scope,
		loading: true,
	}
}

func (v *planListView) ID() ViewID { return ViewPlanList }

func (v *planListView) Title() string {
	if v.scope.Facility != "" {
		return "Plans: " + v.scope.Facility
	}
	return "Plans"
}

// CapturesInput holds every key while the filter is being typed.
func (v *planListView) CapturesInput() bool { return v.filtering }

func (v *planListView) ShortHelp() []key.Binding {
	if v.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "report")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	}
}

func (v *planListView) Init() tea.Cmd {
	return v.loadPlans()
}

func (v *planListView) loadPlans() tea.Cmd {
	app := v.state.App
	scope := v.scope
	return func() tea.Msg {
		plans, err := app.Plans.List(context.Background(), scope)
		return plansLoadedMsg{scope: scope, plans: plans, err: err}
	}
}

func (v *planListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		if msg.scope != v.scope {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.plans = msg.plans
		if n := len(v.visiblePlans()); v.cursor >= n {
			v.cursor = max(0, n-1)
		}
		return v, nil

	case refreshViewMsg:
		return v, v.loadPlans()

	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *planListView) selected() *domain.Plan {
	visible := v.visiblePlans()
	if v.cursor < len(visible) {
		return visible[v.cursor]
	}
	return nil
}

func (v *planListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.visiblePlans()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case "enter":
		if p := v.selected(); p != nil {
			return v, pushView(newReportView(v.state, p.ID))
		}
	case "e":
		if p := v.selected(); p != nil {
			if p.Status != domain.PlanDraft {
				return v, flashErr(fmt.Errorf("%s is %s: %w", p.DisplayID(), p.Status.Label(), domain.ErrPlanLocked))
			}
			return v, pushView(newEditorView(v.state, p.ID))
		}
	case "n":
		return v, newPlanWizardCmd(v.state, v.scope.Facility)
	case "/":
		v.filtering = true
		v.filter = ""
	}
	return v, nil
}

func (v *planListView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter = ""
		v.cursor = 0
	case tea.KeyEnter:
		v.filtering = false
	case tea.KeyBackspace:
		if len(v.filter) > 0 {
			v.filter = v.filter[:len(v.filter)-1]
			v.cursor = 0
		}
	case tea.KeySpace:
		v.filter += " "
		v.cursor = 0
	case tea.KeyRunes:
		v.filter += string(msg.Runes)
		v.cursor = 0
	}
	return v, nil
}

// visiblePlans applies the typed filter to facility, program, fiscal year
// and id prefix.
func (v *planListView) visiblePlans() []*domain.Plan {
	if v.filter == "" {
		return v.plans
	}
	lf := strings.ToLower(v.filter)
	var filtered []*domain.Plan
	for _, p := range v.plans {
		if strings.Contains(strings.ToLower(p.FacilityName), lf) ||
			strings.Contains(strings.ToLower(p.Program), lf) ||
			strings.Contains(p.FiscalYear, lf) ||
			strings.HasPrefix(p.ID, lf) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (v *planListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading plans...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	visible := v.visiblePlans()

	var b strings.Builder
	b.WriteString("\n")

	if v.filtering || v.filter != "" {
		cursor := ""
		if v.filtering {
			cursor = "█"
		}
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter + cursor + "\n\n")
	}

	if len(visible) == 0 {
		if len(v.plans) == 0 {
			b.WriteString("  " + formatter.Dim("No plans yet. Press 'n' to create one.") + "\n")
		} else {
			b.WriteString("  " + formatter.Dim("No plans match.") + "\n")
		}
		return b.String()
	}

	money := v.state.App.Money
	now := v.state.App.now()
	for i, p := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}

		b.WriteString(fmt.Sprintf("%s%s  %s  %-10s %-9s  %s  %14s  %s\n",
			cursor,
			formatter.TruncID(p.ID),
			nameStyle.Render(fmt.Sprintf("%-26s", formatter.Truncate(p.FacilityName, 26))),
			p.Program,
			p.FiscalYear,
			formatter.StatusPill(p.Status),
			money.Amount(budget.GrandTotal(p.Activities)),
			formatter.Dim(formatter.Ago(p.UpdatedAt, now)),
		))
	}

	return b.String()
}
