package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/grid"
	"github.com/turnity/turnity/internal/teatest"
	"github.com/turnity/turnity/internal/testutil"
)

// tuiCmdTimeout covers a round trip to the fake backend.
const tuiCmdTimeout = 2 * time.Second

// TestDriver wraps teatest.Driver with access to appModel internals (view
// stack, shared state, the mounted grid) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	Backend *testutil.FakeBackend
}

// NewTestDriver builds the appModel for the fake's manager and drains
// Init, which loads the stores and opens the store form.
func NewTestDriver(t *testing.T) *TestDriver {
	t.Helper()
	app, fb := loggedInApp(t)
	sess, err := app.Auth.Current(t.Context())
	require.NoError(t, err)

	m := newAppModel(app, sess)
	d := teatest.New(t, m, teatest.WithSize(140, 40), teatest.WithCmdTimeout(tuiCmdTimeout))
	d.DrainInit()
	return &TestDriver{Driver: d, Backend: fb}
}

// NewGridDriver is a TestDriver with the June grid for S1/D1 pushed on top
// of the picker and loaded. seed runs against the fake before the load.
func NewGridDriver(t *testing.T, seed func(fb *testutil.FakeBackend)) *TestDriver {
	t.Helper()
	app, fb := loggedInApp(t)
	if seed != nil {
		seed(fb)
	}
	sess, err := app.Auth.Current(t.Context())
	require.NoError(t, err)

	m := newAppModel(app, sess)
	d := teatest.New(t, m, teatest.WithSize(140, 40), teatest.WithCmdTimeout(tuiCmdTimeout))
	td := &TestDriver{Driver: d, Backend: fb}

	scope := grid.Scope{Store: testutil.TestStore, Department: testutil.TestDepartment}
	g, err := openGrid(t.Context(), app, sess.User, scope, app.now())
	require.NoError(t, err)
	td.State().Grid = g
	td.Send(pushViewMsg{view: newGridView(td.State(), g)})
	return td
}

// ── Turnity-specific inspection ──────────────────────────────────────────────

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

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
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

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Grid returns the mounted grid session.
func (d *TestDriver) Grid() *grid.Session {
	return d.State().Grid
}

// GridView returns the grid view wherever it sits on the stack.
func (d *TestDriver) GridView() *gridView {
	for _, v := range d.appModel().viewStack {
		if gv, ok := v.(*gridView); ok {
			return gv
		}
	}
	return nil
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the transient output shown in the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// Screen is View with styling removed.
func (d *TestDriver) Screen() string {
	return stripANSI(d.View())
}

// MoveTo puts the grid cursor on row, col of the selected week.
func (d *TestDriver) MoveTo(row, col int) {
	d.T.Helper()
	gv := d.GridView()
	require.NotNil(d.T, gv)
	gv.row, gv.col = row, col
}
