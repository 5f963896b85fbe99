package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

const (
	colHours = iota
	colShifts
	colBreaks
)

// noBreak is the first entry of the break column; choosing it clears the break.
const noBreak = "(none)"

// editorView drives the grid's open Editor: hour, then shift, then break,
// each column filled from its catalog as the previous choice lands.
type editorView struct {
	state *SharedState
	g     *grid.Session
	emp   domain.EmployeeRef
	day   time.Time

	focus  int
	cursor [3]int
	err    error
}

func newEditorView(state *SharedState, g *grid.Session, emp domain.EmployeeRef, day time.Time) *editorView {
	return &editorView{state: state, g: g, emp: emp, day: day}
}

func (v *editorView) ID() ViewID    { return ViewEditor }
func (v *editorView) Title() string { return "Shift" }
func (v *editorView) ShortHelp() []key.Binding {
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "column")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	}
	if ed := v.g.Editor(); ed != nil && ed.CanDelete() {
		hints = append(hints, key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")))
	}
	return append(hints, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (v *editorView) Init() tea.Cmd { return nil }

func (v *editorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		if msg.grid != v.g || !v.g.ApplyCatalog(msg.res) {
			return v, nil
		}
		v.syncCursors()
		v.followPhase()
		return v, nil
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *editorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	ed := v.g.Editor()
	if ed == nil {
		return popView()
	}
	switch msg.String() {
	case "esc":
		v.g.CloseEditor()
		return popView()
	case "up", "k":
		v.cursor[v.focus] = max(v.cursor[v.focus]-1, 0)
	case "down", "j":
		v.cursor[v.focus] = min(v.cursor[v.focus]+1, max(len(v.items(v.focus))-1, 0))
	case "tab", "right", "l":
		v.focus = min(v.focus+1, v.maxFocus())
	case "shift+tab", "left", "h":
		v.focus = max(v.focus-1, colHours)
	case "enter":
		return v.choose()
	case "s":
		if err := v.g.SaveEditor(); err != nil {
			v.err = err
			return nil
		}
		return popView()
	case "d":
		if !ed.CanDelete() {
			return nil
		}
		if err := v.g.DeleteFromEditor(); err != nil {
			v.err = err
			return nil
		}
		return popView()
	}
	return nil
}

// choose selects the item under the cursor in the focused column.
func (v *editorView) choose() tea.Cmd {
	ed := v.g.Editor()
	items := v.items(v.focus)
	if len(items) == 0 {
		return nil
	}
	item := items[v.cursor[v.focus]]
	v.err = nil

	var (
		req *grid.CatalogRequest
		err error
	)
	switch v.focus {
	case colHours:
		req, err = ed.SelectHour(item)
		v.cursor[colShifts], v.cursor[colBreaks] = 0, 0
	case colShifts:
		req, err = ed.SelectShift(ed.Shifts()[v.cursor[colShifts]].Code)
		v.cursor[colBreaks] = 0
	case colBreaks:
		if item == noBreak {
			item = ""
		}
		err = ed.SelectBreak(item)
	}
	if err != nil {
		v.err = err
		return nil
	}
	v.followPhase()
	if req == nil {
		return nil
	}
	return fetchCatalogCmd(v.g, *req)
}

// followPhase moves focus to the column the editor is waiting on.
func (v *editorView) followPhase() {
	switch v.g.Editor().Phase() {
	case grid.PhaseShift:
		v.focus = colShifts
	case grid.PhaseBreak:
		v.focus = colBreaks
	default:
		v.focus = colHours
	}
}

// syncCursors points each column's cursor at the editor's current choice,
// so an opened assigned cell starts on its hour, shift and break.
func (v *editorView) syncCursors() {
	ed := v.g.Editor()
	for i, h := range ed.Hours() {
		if h == ed.SelectedHour() {
			v.cursor[colHours] = i
		}
	}
	if sel := ed.SelectedShift(); sel != nil {
		for i, s := range ed.Shifts() {
			if s.Code == sel.Code {
				v.cursor[colShifts] = i
			}
		}
	}
	for i, b := range v.items(colBreaks) {
		if b == ed.SelectedBreak() {
			v.cursor[colBreaks] = i
		}
	}
}

func (v *editorView) maxFocus() int {
	switch v.g.Editor().Phase() {
	case grid.PhaseShift:
		return colShifts
	case grid.PhaseBreak:
		return colBreaks
	}
	return colHours
}

func (v *editorView) items(col int) []string {
	ed := v.g.Editor()
	if ed == nil {
		return nil
	}
	switch col {
	case colHours:
		return ed.Hours()
	case colShifts:
		out := make([]string, len(ed.Shifts()))
		for i, s := range ed.Shifts() {
			out[i] = fmt.Sprintf("%s  %s-%s", s.Code, domain.ClockHHMM(s.StartTime), domain.ClockHHMM(s.EndTime))
		}
		return out
	case colBreaks:
		if ed.SelectedShift() == nil || len(ed.Breaks()) == 0 {
			return nil
		}
		return append([]string{noBreak}, ed.Breaks()...)
	}
	return nil
}

func (v *editorView) View() string {
	ed := v.g.Editor()
	if ed == nil {
		return ""
	}
	var b strings.Builder
	mode := "New shift"
	if ed.Editing() {
		mode = "Edit shift"
	}
	fmt.Fprintf(&b, "%s  %s · %s\n\n", formatter.Bold(mode), v.emp.FullName, v.day.Format("Monday 02 January"))

	if ed.Phase() == grid.PhaseLoading {
		b.WriteString(formatter.Dim("Loading hours…") + "\n")
	} else {
		cols := []string{
			v.renderColumn(colHours, "HOURS", ed.SelectedHour()),
			v.renderColumn(colShifts, "SHIFT", selectedShiftLabel(ed)),
			v.renderColumn(colBreaks, "BREAK", ed.SelectedBreak()),
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		b.WriteString("\n")
	}

	if ed.Pending() {
		b.WriteString("\n" + formatter.Dim("Loading…"))
	}
	if err := v.errText(ed); err != "" {
		b.WriteString("\n" + formatter.StyleRed.Render(err))
	}
	if ed.CanSave() {
		b.WriteString("\n" + formatter.StyleGreen.Render("Ready to save (s)"))
	}
	return b.String()
}

func (v *editorView) errText(ed *grid.Editor) string {
	if v.err != nil {
		return v.err.Error()
	}
	if ed.Err() != nil {
		return "Catalog unavailable: " + ed.Err().Error()
	}
	return ""
}

func (v *editorView) renderColumn(col int, title, selected string) string {
	var b strings.Builder
	head := formatter.Header(title)
	if v.focus == col {
		head = formatter.StyleCursor.Render(title)
	}
	b.WriteString(head + "\n")
	items := v.items(col)
	if len(items) == 0 {
		b.WriteString(formatter.Dim("·") + "\n")
	}
	for i, it := range items {
		mark := "  "
		if it == selected || (col == colBreaks && it == noBreak && selected == "" && v.g.Editor().SelectedShift() != nil) {
			mark = "✔ "
		}
		line := mark + it
		if v.focus == col && v.cursor[col] == i {
			line = formatter.StyleCursor.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return lipgloss.NewStyle().Width(24).Render(b.String())
}

func selectedShiftLabel(ed *grid.Editor) string {
	s := ed.SelectedShift()
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s  %s-%s", s.Code, domain.ClockHHMM(s.StartTime), domain.ClockHHMM(s.EndTime))
}
