package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnity/turnity/internal/cli/formatter"
	"github.com/turnity/turnity/internal/grid"
)

// incidentsView lists the last submission's incidents in a scrollable box.
type incidentsView struct {
	state *SharedState
	g     *grid.Session
	vp    viewport.Model
}

func newIncidentsView(state *SharedState, g *grid.Session) *incidentsView {
	vp := viewport.New(state.Width, state.ContentHeight())
	vp.KeyMap = outputViewportKeyMap()
	v := &incidentsView{state: state, g: g, vp: vp}
	v.refresh()
	return v
}

func (v *incidentsView) ID() ViewID    { return ViewIncidents }
func (v *incidentsView) Title() string { return "Incidents" }
func (v *incidentsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *incidentsView) Init() tea.Cmd { return nil }

func (v *incidentsView) refresh() {
	title := fmt.Sprintf("%d incidents", len(v.g.Incidents()))
	if out := v.g.LastOutcome(); out != nil {
		title = out.Message + " · " + title
	}
	v.vp.SetContent(formatter.RenderBox(title, formatter.RenderIncidents(v.g.Incidents(), employeeNames(v.g))))
}

func (v *incidentsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil
	case submittedMsg:
		if msg.grid == v.g {
			v.refresh()
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *incidentsView) View() string {
	if v.state.Height == 0 {
		return formatter.RenderBox("Incidents", formatter.RenderIncidents(v.g.Incidents(), employeeNames(v.g)))
	}
	return v.vp.View()
}
