package cli

import (
	"testing"

	"github.com/alexanderramin/fyplan/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, flash line, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app, sizes the terminal and drains
// Init, which loads the dashboard from the in-memory database.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	return newTestDriverWith(t, newAppModel(app, nil))
}

// NewEditorTestDriver starts the TUI with the editor for planID on top.
func NewEditorTestDriver(t *testing.T, app *App, planID string) *TestDriver {
	t.Helper()
	return newTestDriverWith(t, newAppModel(app, func(s *SharedState) View { return newEditorView(s, planID) }))
}

func newTestDriverWith(t *testing.T, m appModel) *TestDriver {
	t.Helper()
	d := teatest.New(t, m, teatest.WithSize(140, 80))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the top view for type assertions.
func (d *TestDriver) ActiveView() View {
	m := d.appModel()
	return m.activeView()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// Flash returns the status-bar notice and whether it is an error.
func (d *TestDriver) Flash() (string, bool) {
	m := d.appModel()
	return m.flash, m.flashIsErr
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app asked to quit, either through its own
// flag or a tea.QuitMsg seen by the driver.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
