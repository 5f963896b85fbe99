package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/testutil"
)

func newTestPicker(t *testing.T) (*pickerView, *testutil.FakeBackend) {
	t.Helper()
	app, fb := loggedInApp(t)
	sess, err := app.Auth.Current(t.Context())
	require.NoError(t, err)
	return newPickerView(&SharedState{App: app, Session: sess}), fb
}

// pushedWizard runs cmd and returns the wizard it pushes.
func pushedWizard(t *testing.T, cmd tea.Cmd) *wizardView {
	t.Helper()
	require.NotNil(t, cmd)
	push, ok := cmd().(pushViewMsg)
	require.True(t, ok, "expected a pushed view")
	wv, ok := push.view.(*wizardView)
	require.True(t, ok, "expected a wizard, got %T", push.view)
	return wv
}

func TestPicker_ChoosesStoreThenDepartmentThenOpensGrid(t *testing.T) {
	v, _ := newTestPicker(t)

	msg := v.Init()()
	loaded, ok := msg.(storesLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Len(t, loaded.stores, 2)
	assert.Nil(t, loaded.last)

	_, cmd := v.Update(msg)
	storeWizard := pushedWizard(t, cmd)
	assert.Equal(t, "Store", storeWizard.Title())

	// The form writes the choice through the bound pointer.
	v.storeID = "S1"
	msg = storeWizard.done()()
	_, cmd = v.Update(msg)
	deptWizard := pushedWizard(t, cmd)
	assert.Equal(t, "Department", deptWizard.Title())
	require.Len(t, v.departments, 1)

	v.departmentID = "D1"
	msg = deptWizard.done()()
	opened, ok := msg.(gridOpenedMsg)
	require.True(t, ok)
	require.NoError(t, opened.err)
	assert.Equal(t, "Centro", opened.grid.Scope().Store.Name)
	assert.Equal(t, "Cajas", opened.grid.Scope().Department.Name)
	assert.Equal(t, "2024-06", opened.grid.MonthLabel())
	assert.Len(t, opened.grid.Employees(), 2)

	_, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	push, ok := cmd().(pushViewMsg)
	require.True(t, ok)
	assert.Equal(t, ViewGrid, push.view.ID())
	assert.Same(t, opened.grid, v.state.Grid)
}

func TestPicker_PreselectsRememberedScope(t *testing.T) {
	v, _ := newTestPicker(t)
	require.NoError(t, v.state.App.Scopes.Upsert(t.Context(), &domain.GridScope{
		UserDocument: "1001",
		Store:        testutil.TestStore,
		Department:   testutil.TestDepartment,
		Month:        "2024-04",
	}))

	_, _ = v.Update(v.Init()())
	assert.Equal(t, "S1", v.storeID)
	assert.Equal(t, "D1", v.departmentID)
	assert.Equal(t, "2024-04", v.month.Format("2006-01"))

	v.loading = false
	assert.Contains(t, stripANSI(v.View()), "Last opened: Centro")
}

func TestPicker_NoStores(t *testing.T) {
	v, fb := newTestPicker(t)
	fb.Stores = nil

	_, cmd := v.Update(v.Init()())
	assert.Nil(t, cmd)
	require.Error(t, v.err)
	assert.Contains(t, stripANSI(v.View()), "no stores are assigned to you")
}

func TestPicker_StoreWithoutDepartments(t *testing.T) {
	v, _ := newTestPicker(t)
	_, cmd := v.Update(v.Init()())
	storeWizard := pushedWizard(t, cmd)

	v.storeID = "S2"
	_, cmd = v.Update(storeWizard.done()())
	assert.Nil(t, cmd)
	require.Error(t, v.err)
	assert.Contains(t, v.err.Error(), "Norte has no departments")
}

func TestPicker_IgnoresDepartmentsForAnotherStore(t *testing.T) {
	v, _ := newTestPicker(t)
	_, _ = v.Update(v.Init()())
	v.storeID = "S2"

	_, cmd := v.Update(departmentsLoadedMsg{store: testutil.TestStore, departments: []domain.Department{testutil.TestDepartment}})
	assert.Nil(t, cmd)
	assert.Empty(t, v.departments)
}
