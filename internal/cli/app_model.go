package cli

import (
	"strings"

	"github.com/alexanderramin/fyplan/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	keyQuit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyBack = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack, the breadcrumb header and the key-hint bar.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool

	// One-line notice shown in the status bar until the next key press.
	flash      string
	flashIsErr bool
}

// newAppModel builds the TUI rooted at the dashboard. When start is given,
// its view is pushed on top, so esc still leads back to the dashboard.
func newAppModel(app *App, start func(*SharedState) View) appModel {
	state := &SharedState{App: app}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.ShortSeparator = formatter.StyleDim

	m := appModel{
		state: state,
		help:  h,
	}
	m.viewStack = []View{newDashboardView(state)}
	if start != nil {
		m.viewStack = append(m.viewStack, start(state))
	}
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m appModel) Init() tea.Cmd {
	// Every view on the stack loads, so going back shows fresh data.
	cmds := make([]tea.Cmd, 0, len(m.viewStack))
	for _, v := range m.viewStack {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		return m.broadcast(msg)

	case tea.KeyMsg:
		m.flash = ""
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case replaceViewMsg:
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case flashMsg:
		m.flash = msg.text
		m.flashIsErr = msg.isErr
		return m, nil

	case planCreatedMsg:
		if msg.err != nil {
			m.flash, m.flashIsErr = msg.err.Error(), true
			return m, nil
		}
		v := newEditorView(m.state, msg.plan.ID)
		m.viewStack = append(m.viewStack, v)
		m.flash, m.flashIsErr = "Created "+msg.plan.Title(), false
		return m, tea.Batch(v.Init(), refreshViews())

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 && m.activeView().ID() == ViewForm {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd
	}

	// Load results and timers belong to whichever view asked for them, which
	// may sit under the top of the stack. Views ignore message types they
	// don't own. refreshViewMsg reaches every view the same way.
	return m.broadcast(msg)
}

// broadcast hands msg to every view on the stack, bottom to top.
func (m appModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// forward hands msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Views that are typing get every key, including q and esc.
	if v := m.activeView(); viewCapturesInput(v) {
		return m.forward(msg)
	}

	switch {
	case key.Matches(msg, keyQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keyBack):
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("fyplan")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	breadcrumb := ""
	if len(crumbs) > 0 {
		breadcrumb = " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := title + breadcrumb
	if s := m.state.App.session(); s.HasFacility() {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(s.Hospital) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	if m.flash != "" {
		style := formatter.StyleGreen
		if m.flashIsErr {
			style = formatter.StyleRed
		}
		return sep + "\n" + style.Render(m.flash)
	}

	var bindings []key.Binding
	if v := m.activeView(); v != nil {
		bindings = append(bindings, v.ShortHelp()...)
		if len(m.viewStack) > 1 && !viewCapturesInput(v) {
			bindings = append(bindings, keyBack)
		}
	}
	if !viewCapturesInput(m.activeView()) {
		bindings = append(bindings, keyQuit)
	}
	return sep + "\n" + m.help.ShortHelpView(bindings)
}
