package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

type storesLoadedMsg struct {
	stores []domain.Store
	last   *domain.GridScope
	err    error
}

type departmentsLoadedMsg struct {
	store       domain.Store
	departments []domain.Department
	err         error
}

type gridOpenedMsg struct {
	grid *grid.Session
	err  error
}

// pickerView is the home view: it chooses the store and department to
// schedule, starting from the user's last selection, and opens the grid.
type pickerView struct {
	state *SharedState

	stores       []domain.Store
	departments  []domain.Department
	storeID      string
	departmentID string
	month        time.Time

	loading bool
	err     error
}

func newPickerView(state *SharedState) *pickerView {
	return &pickerView{state: state, loading: true}
}

func (v *pickerView) ID() ViewID    { return ViewPicker }
func (v *pickerView) Title() string { return "" }
func (v *pickerView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose store")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *pickerView) Init() tea.Cmd {
	return v.loadStoresCmd()
}

func (v *pickerView) loadStoresCmd() tea.Cmd {
	app, user := v.state.App, v.state.User()
	return func() tea.Msg {
		ctx := context.Background()
		stores, err := app.API.Stores(ctx, user.Document)
		return storesLoadedMsg{stores: stores, last: lastScope(ctx, app, user.Document), err: err}
	}
}

func (v *pickerView) loadDepartmentsCmd(store domain.Store) tea.Cmd {
	app, user := v.state.App, v.state.User()
	return func() tea.Msg {
		deps, err := app.API.Departments(context.Background(), user.Document, store.ID)
		return departmentsLoadedMsg{store: store, departments: deps, err: err}
	}
}

func (v *pickerView) openGridCmd(scope grid.Scope) tea.Cmd {
	app, user := v.state.App, v.state.User()
	ref := v.month
	if ref.IsZero() {
		ref = app.now()
	}
	return func() tea.Msg {
		g, err := openGrid(context.Background(), app, user, scope, ref)
		return gridOpenedMsg{grid: g, err: err}
	}
}

func (v *pickerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storesLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.stores = msg.stores
		if last := msg.last; last != nil {
			v.storeID = last.Store.ID
			v.departmentID = last.Department.ID
			if m, err := parseMonth(last.Month); err == nil {
				v.month = m
			}
		}
		if len(v.stores) == 0 {
			v.err = errors.New("no stores are assigned to you")
			return v, nil
		}
		return v, v.chooseStore()

	case departmentsLoadedMsg:
		if msg.store.ID != v.storeID {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.departments = msg.departments
		if !hasDepartment(v.departments, v.departmentID) {
			v.departmentID = ""
		}
		if len(v.departments) == 0 {
			v.err = fmt.Errorf("%s has no departments", msg.store.Name)
			return v, nil
		}
		form := departmentForm(msg.store, v.departments, &v.departmentID)
		return v, startWizardCmd("Department", form, func() tea.Cmd {
			return v.openGridCmd(grid.Scope{Store: msg.store, Department: v.department()})
		})

	case gridOpenedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.state.Grid = msg.grid
		return v, pushView(newGridView(v.state, msg.grid))

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch msg.String() {
		case "enter":
			if len(v.stores) > 0 {
				return v, v.chooseStore()
			}
		case "r":
			v.loading = true
			v.err = nil
			return v, v.loadStoresCmd()
		}
	}
	return v, nil
}

// chooseStore opens the store form; its completion loads the chosen
// store's departments.
func (v *pickerView) chooseStore() tea.Cmd {
	return startWizardCmd("Store", storeForm(v.stores, &v.storeID), func() tea.Cmd {
		store, ok := v.store()
		if !ok {
			return nil
		}
		v.loading = true
		return v.loadDepartmentsCmd(store)
	})
}

func (v *pickerView) store() (domain.Store, bool) {
	for _, s := range v.stores {
		if s.ID == v.storeID {
			return s, true
		}
	}
	return domain.Store{}, false
}

func (v *pickerView) department() domain.Department {
	for _, d := range v.departments {
		if d.ID == v.departmentID {
			return d
		}
	}
	return domain.Department{}
}

func hasDepartment(deps []domain.Department, id string) bool {
	for _, d := range deps {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (v *pickerView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case v.loading:
		b.WriteString("  " + formatter.Dim("Loading…"))
	case v.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()))
		b.WriteString("\n\n  " + formatter.Dim("r: retry"))
	default:
		b.WriteString("  Press " + formatter.Bold("enter") + " to choose a store and department.")
		if s, ok := v.store(); ok {
			line := "Last opened: " + s.Name
			if d := v.department(); d.Name != "" {
				line += " · " + d.Name
			}
			if !v.month.IsZero() {
				line += " · " + formatter.MonthTitle(v.month)
			}
			b.WriteString("\n\n  " + formatter.Dim(line))
		}
	}
	b.WriteString("\n")
	return b.String()
}
