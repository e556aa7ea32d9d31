package cli

import (
	"errors"
	"testing"

	"github.com/alexanderramin/fyplan/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	initCmd    tea.Cmd
	updateSeen []tea.Msg
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, nil
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return nil }
func (v *stubView) Title() string            { return v.title }

func newStubView(id ViewID, title string) *stubView {
	return &stubView{id: id, title: title, viewText: title + " view"}
}

type pingMsg struct{}

func TestNewAppModelStartsAtDashboard(t *testing.T) {
	m := newAppModel(testApp(t), nil)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewDashboard, m.activeView().ID())
}

func TestNewAppModel_StartViewSitsOnDashboard(t *testing.T) {
	m := newAppModel(testApp(t), func(s *SharedState) View { return newStubView(ViewReport, "Report") })

	require.Len(t, m.viewStack, 2)
	assert.Equal(t, ViewDashboard, m.viewStack[0].ID())
	assert.Equal(t, ViewReport, m.activeView().ID())
}

func TestAppModel_NavigationMessages(t *testing.T) {
	m := newAppModel(testApp(t), nil)
	list := newStubView(ViewPlanList, "Plans")
	report := newStubView(ViewReport, "Report")

	model, cmd := m.Update(pushViewMsg{view: list})
	m = model.(appModel)
	assert.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, list, m.activeView())

	model, _ = m.Update(replaceViewMsg{view: report})
	m = model.(appModel)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, report, m.activeView())

	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)

	// The root view is never popped.
	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	assert.Len(t, m.viewStack, 1)
}

func TestAppModel_BroadcastsNonKeyMessages(t *testing.T) {
	m := newAppModel(testApp(t), nil)
	bottom := newStubView(ViewPlanList, "Plans")
	top := newStubView(ViewReport, "Report")
	m.viewStack = []View{bottom, top}

	model, _ := m.Update(pingMsg{})
	m = model.(appModel)

	assert.Equal(t, []tea.Msg{pingMsg{}}, bottom.updateSeen)
	assert.Equal(t, []tea.Msg{pingMsg{}}, top.updateSeen)
}

func TestAppModel_KeysOnlyReachTheTopView(t *testing.T) {
	m := newAppModel(testApp(t), nil)
	bottom := newStubView(ViewPlanList, "Plans")
	top := newStubView(ViewReport, "Report")
	m.viewStack = []View{bottom, top}
	m.flash = "Saved"

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = model.(appModel)

	assert.Empty(t, bottom.updateSeen)
	require.Len(t, top.updateSeen, 1)
	assert.Empty(t, m.flash, "a key press clears the flash line")
}

func TestAppModel_WizardCompletePopsForm(t *testing.T) {
	m := newAppModel(testApp(t), nil)
	m.viewStack = append(m.viewStack, newStubView(ViewForm, "New plan"))

	model, _ := m.Update(wizardCompleteMsg{nextCmd: flash("done")})
	m = model.(appModel)

	assert.Equal(t, ViewDashboard, m.activeView().ID())
}

func TestAppModel_HeaderShowsBreadcrumbAndHospital(t *testing.T) {
	m := newAppModel(testApp(t), nil)
	m.viewStack = append(m.viewStack, newStubView(ViewPlanList, "Plans"))

	header := ansi.Strip(m.renderHeader())
	assert.Contains(t, header, "fyplan › Plans")
	assert.Contains(t, header, "[Kabgayi]")
}

func TestReportView_IgnoresOtherPlansResults(t *testing.T) {
	state := &SharedState{App: testApp(t)}
	v := newReportView(state, "plan-a")

	v.Update(reportLoadedMsg{planID: "plan-b", err: errors.New("boom")})

	assert.True(t, v.loading)
	assert.NoError(t, v.err)
}

func TestPlanListView_IgnoresOtherScopes(t *testing.T) {
	state := &SharedState{App: testApp(t)}
	v := newPlanListView(state, repository.PlanFilter{Facility: "Kabgayi"})

	v.Update(plansLoadedMsg{scope: repository.PlanFilter{}, err: errors.New("boom")})

	assert.True(t, v.loading)
	assert.NoError(t, v.err)
}
