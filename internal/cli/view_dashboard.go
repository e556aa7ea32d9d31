package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/alexanderramin/fyplan/internal/pager"
	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/alexanderramin/fyplan/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// dashboardLoadedMsg signals that a dashboard page has been built.
type dashboardLoadedMsg struct {
	data *service.Dashboard
	err  error
}

// pageSettleMsg fires when the page delay after a paging key has elapsed.
type pageSettleMsg struct {
	token pager.Token
}

// dashboardView is the home screen of the TUI: the session hospital, its
// programs and one page of supervised health centers.
//
// Paging keys do not load immediately. Each press records a pending page
// and starts a timer; only the newest timer loads, so holding an arrow key
// loads once when it is released.
type dashboardView struct {
	state   *SharedState
	data    *service.Dashboard
	loading bool
	err     error

	page     int
	deferred pager.Deferred
}

var (
	keyPagePrev = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "page"))
	keyPageNext = key.NewBinding(key.WithKeys("right", "l"))
)

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state:   state,
		loading: true,
		page:    1,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		keyPagePrev,
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plans")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "hospital plans")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new plan")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.load(v.page)
}

func (v *dashboardView) load(page int) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		d, err := app.Dashboard.Build(context.Background(), app.session(), page)
		return dashboardLoadedMsg{data: d, err: err}
	}
}

// requestPage defers a move to page behind the configured page delay.
func (v *dashboardView) requestPage(page int) tea.Cmd {
	if v.data == nil {
		return nil
	}
	page = pager.Clamp(page, v.data.Page.TotalPages)
	if pending, ok := v.deferred.Pending(); ok && pending == page {
		return nil
	}
	if page == v.data.Page.Number {
		v.deferred.Cancel()
		return nil
	}
	token := v.deferred.Request(page)
	return tea.Tick(v.state.App.pageDelay(), func(time.Time) tea.Msg {
		return pageSettleMsg{token: token}
	})
}

// target is the page the next relative move starts from.
func (v *dashboardView) target() int {
	if pending, ok := v.deferred.Pending(); ok {
		return pending
	}
	return v.page
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.data = msg.data
		v.page = msg.data.Page.Number
		return v, nil

	case pageSettleMsg:
		page, ok := v.deferred.Settle(msg.token)
		if !ok {
			return v, nil
		}
		v.page = page
		return v, v.load(page)

	case refreshViewMsg:
		v.deferred.Cancel()
		return v, v.load(v.page)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyPagePrev):
			return v, v.requestPage(v.target() - 1)
		case key.Matches(msg, keyPageNext):
			return v, v.requestPage(v.target() + 1)
		}
		switch msg.String() {
		case "g":
			return v, v.requestPage(1)
		case "G":
			if v.data != nil {
				return v, v.requestPage(v.data.Page.TotalPages)
			}
		case "p":
			return v, pushView(newPlanListView(v.state, repository.PlanFilter{}))
		case "enter":
			if s := v.state.App.session(); s.HasFacility() {
				return v, pushView(newPlanListView(v.state, repository.PlanFilter{Facility: s.Hospital}))
			}
		case "n":
			return v, newPlanWizardCmd(v.state, "")
		case "r":
			v.loading = true
			v.deferred.Cancel()
			return v, v.load(v.page)
		}
	}

	return v, nil
}

func (v *dashboardView) View() string {
	if v.loading && v.data == nil && v.err == nil {
		return "\n  " + formatter.Dim("Loading...")
	}
	if errors.Is(v.err, service.ErrOnboardingIncomplete) {
		var b strings.Builder
		b.WriteString("\n  " + formatter.Bold("Welcome to fyplan.") + "\n\n")
		b.WriteString("  " + formatter.Dim("No hospital is set for this session. Run") + "\n")
		b.WriteString("    fyplan onboard --hospital NAME\n")
		b.WriteString("  " + formatter.Dim("then reopen the dashboard. Press p to browse existing plans.") + "\n")
		return b.String()
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if v.data == nil {
		return ""
	}

	pending, ok := v.deferred.Pending()
	if !ok {
		pending = 0
	}
	return "\n" + formatter.FormatDashboard(v.data, pending)
}
