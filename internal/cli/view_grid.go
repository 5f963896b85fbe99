package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

// Asynchronous grid results. Each carries the session it was issued for so
// a view never applies another grid's answer.

type weeksLoadedMsg struct {
	grid  *grid.Session
	ref   time.Time
	weeks []domain.Week
	err   error
}

type shiftsLoadedMsg struct {
	grid *grid.Session
	seq  uint64
	res  *grid.LoadResult
	err  error
}

type submittedMsg struct {
	grid    *grid.Session
	outcome grid.Outcome
	err     error
}

func (weeksLoadedMsg) gridEvent()  {}
func (shiftsLoadedMsg) gridEvent() {}
func (submittedMsg) gridEvent()    {}

// catalogLoadedMsg goes to the active view only: the open editor, or the
// grid once the editor has closed, where it is dropped as stale.
type catalogLoadedMsg struct {
	grid *grid.Session
	res  grid.CatalogResult
}

type monthChosenMsg struct {
	ref time.Time
}

func fetchWeeksCmd(g *grid.Session, ref time.Time) tea.Cmd {
	return func() tea.Msg {
		weeks, err := g.FetchWeeks(context.Background(), ref)
		return weeksLoadedMsg{grid: g, ref: ref, weeks: weeks, err: err}
	}
}

func loadShiftsCmd(g *grid.Session, req grid.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := g.FetchLoad(context.Background(), req)
		return shiftsLoadedMsg{grid: g, seq: req.Seq, res: res, err: err}
	}
}

func fetchCatalogCmd(g *grid.Session, req grid.CatalogRequest) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{grid: g, res: g.FetchCatalog(context.Background(), req)}
	}
}

func submitCmd(g *grid.Session, p grid.Payload) tea.Cmd {
	return func() tea.Msg {
		out, err := g.Send(context.Background(), p)
		return submittedMsg{grid: g, outcome: out, err: err}
	}
}

// gridView is the month grid: employees by the selected week's days, with
// weekly hour totals.
type gridView struct {
	state *SharedState
	g     *grid.Session

	row, col     int
	loadingWeeks bool
	flash        string
	monthInput   string
}

func newGridView(state *SharedState, g *grid.Session) *gridView {
	return &gridView{state: state, g: g, loadingWeeks: true}
}

func (v *gridView) ID() ViewID { return ViewGrid }
func (v *gridView) Title() string {
	sc := v.g.Scope()
	return sc.Store.Name + " · " + sc.Department.Name
}

func (v *gridView) ShortHelp() []key.Binding {
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "week")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "month")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "excel")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
	}
	if len(v.g.Incidents()) > 0 {
		hints = append(hints, key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "incidents")))
	}
	return hints
}

func (v *gridView) Init() tea.Cmd {
	return fetchWeeksCmd(v.g, v.g.Reference())
}

func (v *gridView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weeksLoadedMsg:
		if msg.grid != v.g || !msg.ref.Equal(v.g.Reference()) {
			return v, nil
		}
		v.loadingWeeks = false
		if err := v.g.ApplyWeeks(msg.weeks, msg.err); err != nil {
			v.flash = formatter.StyleRed.Render("Could not load weeks: " + err.Error())
			return v, nil
		}
		v.row, v.col = 0, 0
		rememberScope(context.Background(), v.state.App, v.state.User(), v.g.Scope(), v.g.Reference())
		return v, v.startLoad()

	case shiftsLoadedMsg:
		if msg.grid != v.g {
			return v, nil
		}
		v.g.ApplyLoad(msg.seq, msg.res, msg.err)
		return v, nil

	case catalogLoadedMsg:
		if msg.grid == v.g {
			v.g.ApplyCatalog(msg.res)
		}
		return v, nil

	case submittedMsg:
		if msg.grid != v.g {
			return v, nil
		}
		v.g.FinishSubmit(msg.outcome)
		v.flash = formatter.RenderOutcome(msg.outcome)
		if len(msg.outcome.Incidents) > 0 {
			v.flash += formatter.Dim("  i: incidents")
		}
		return v, nil

	case monthChosenMsg:
		v.g.SetReference(msg.ref)
		return v, v.reloadWeeks()

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *gridView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		v.row = max(v.row-1, 0)
	case "down", "j":
		v.row = min(v.row+1, max(len(v.g.Employees())-1, 0))
	case "left", "h":
		v.col = max(v.col-1, 0)
	case "right", "l":
		v.col = min(v.col+1, max(len(v.g.WeekDays())-1, 0))
	case "tab":
		v.g.CycleWeek(1)
		v.clampCol()
	case "shift+tab":
		v.g.CycleWeek(-1)
		v.clampCol()
	case "[":
		v.g.ShiftMonth(-1)
		return v.reloadWeeks()
	case "]":
		v.g.ShiftMonth(1)
		return v.reloadWeeks()
	case "g":
		v.monthInput = v.g.MonthLabel()
		return startWizardCmd("Month", monthForm(&v.monthInput), func() tea.Cmd {
			ref, err := parseMonth(v.monthInput)
			if err != nil {
				return outputCmd(formatter.StyleRed.Render(err.Error()))
			}
			return func() tea.Msg { return monthChosenMsg{ref: ref} }
		})
	case "enter":
		return v.openEditor()
	case "s":
		return v.submit()
	case "i":
		if len(v.g.Incidents()) > 0 {
			return pushView(newIncidentsView(v.state, v.g))
		}
	case "r":
		v.flash = ""
		if len(v.g.Weeks()) == 0 {
			return v.reloadWeeks()
		}
		return v.startLoad()
	case "x":
		v.export(formatXLSX)
	case "p":
		v.export(formatPDF)
	}
	return nil
}

func (v *gridView) clampCol() {
	v.col = min(v.col, max(len(v.g.WeekDays())-1, 0))
}

func (v *gridView) reloadWeeks() tea.Cmd {
	v.loadingWeeks = true
	v.flash = ""
	return fetchWeeksCmd(v.g, v.g.Reference())
}

func (v *gridView) startLoad() tea.Cmd {
	req, err := v.g.BeginLoad()
	if err != nil {
		v.flash = formatter.StyleRed.Render(err.Error())
		return nil
	}
	return loadShiftsCmd(v.g, req)
}

// selected returns the employee and day under the cursor.
func (v *gridView) selected() (domain.EmployeeRef, time.Time, bool) {
	emps, days := v.g.Employees(), v.g.WeekDays()
	if v.row >= len(emps) || v.col >= len(days) {
		return domain.EmployeeRef{}, time.Time{}, false
	}
	return emps[v.row], days[v.col], true
}

func (v *gridView) openEditor() tea.Cmd {
	if v.g.LoadState() != grid.LoadLoaded {
		v.flash = formatter.StyleYellow.Render("Shifts are not loaded yet.")
		return nil
	}
	emp, day, ok := v.selected()
	if !ok {
		return nil
	}
	v.flash = ""
	_, reqs := v.g.OpenEditor(grid.NewKey(emp.ID, day))
	cmds := []tea.Cmd{pushView(newEditorView(v.state, v.g, emp, day))}
	for _, r := range reqs {
		cmds = append(cmds, fetchCatalogCmd(v.g, r))
	}
	return tea.Batch(cmds...)
}

func (v *gridView) submit() tea.Cmd {
	if v.g.Busy() {
		return nil
	}
	p, err := v.g.BeginSubmit()
	if err != nil {
		v.flash = formatter.StyleRed.Render(err.Error())
		return nil
	}
	v.flash = formatter.Dim("Submitting…")
	return submitCmd(v.g, p)
}

func (v *gridView) export(format string) {
	path := exportFileName(v.g, format)
	n, err := exportGrid(v.g, path, format, v.state.App.now())
	if err != nil {
		v.flash = formatter.StyleRed.Render("Export failed: " + err.Error())
		return
	}
	unit := "rows"
	if format == formatPDF {
		unit = "pages"
	}
	v.flash = formatter.StyleGreen.Render(fmt.Sprintf("Exported %d %s to %s", n, unit, path))
}

func (v *gridView) View() string {
	var b strings.Builder
	b.WriteString(formatter.Bold(formatter.MonthTitle(v.g.Reference())))
	b.WriteString("  " + formatter.RenderWeekTabs(v.g.Weeks(), v.g.SelectedWeek()))
	b.WriteString("\n\n")

	switch {
	case v.loadingWeeks:
		b.WriteString(formatter.Dim("Loading weeks…") + "\n")
	case len(v.g.Weeks()) == 0:
		b.WriteString(formatter.Dim("No weeks loaded. [ ] to change month, r to retry.") + "\n")
	case v.g.LoadState() == grid.LoadLoading:
		b.WriteString(formatter.Dim("Loading shifts…") + "\n")
	case v.g.LoadState() == grid.LoadFailed:
		b.WriteString(formatter.StyleRed.Render(fmt.Sprintf("Could not load shifts: %v (r to retry)", v.g.LoadErr())) + "\n")
	}

	if len(v.g.Weeks()) > 0 {
		b.WriteString(formatter.RenderWeek(v.g, v.g.SelectedWeek(), formatter.Cursor{Row: v.row, Col: v.col, Active: true}))
	}

	if v.g.Busy() {
		b.WriteString("\n" + formatter.Dim("Submitting…"))
	} else if v.flash != "" {
		b.WriteString("\n" + v.flash)
	}
	return b.String()
}
