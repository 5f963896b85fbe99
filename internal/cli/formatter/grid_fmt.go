package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

const nameWidth = 24

// Cursor is the focused grid cell. Col indexes the week's days.
type Cursor struct {
	Row    int
	Col    int
	Active bool
}

// RenderWeekTabs renders the week selector, highlighting the selected week.
func RenderWeekTabs(weeks []domain.Week, selected int) string {
	if len(weeks) == 0 {
		return Dim("no weeks")
	}
	tabs := make([]string, len(weeks))
	for i, w := range weeks {
		label := fmt.Sprintf(" %d: %s ", i+1, w.Label())
		if i == selected {
			tabs[i] = StyleCursor.Render(label)
		} else {
			tabs[i] = Dim(label)
		}
	}
	return strings.Join(tabs, " ")
}

// RenderWeekList prints a month partition as a table.
func RenderWeekList(weeks []domain.Week) string {
	rows := make([][]string, 0, len(weeks))
	for i, w := range weeks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			domain.FormatDate(w.Start),
			domain.FormatDate(w.End),
			strconv.Itoa(len(w.Days())),
		})
	}
	return Table{
		Headers:    []string{"WEEK", "FROM", "TO", "DAYS"},
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 3: true},
	}.Render()
}

// RenderWeek renders one week of the grid: an employee per row, a column
// per day and the hours total against the week's target.
func RenderWeek(s *grid.Session, weekIdx int, cur Cursor) string {
	weeks := s.Weeks()
	if weekIdx < 0 || weekIdx >= len(weeks) {
		return Dim("No weeks loaded.")
	}
	emps := s.Employees()
	if len(emps) == 0 {
		return Dim("No employees in this department.")
	}

	days := weeks[weekIdx].Days()
	headers := make([]string, 0, len(days)+2)
	headers = append(headers, "EMPLOYEE")
	for _, d := range days {
		headers = append(headers, strings.ToUpper(DayHeader(d)))
	}
	headers = append(headers, "HOURS")

	totals := s.Totals(weekIdx)
	rows := make([][]string, 0, len(emps))
	for r, emp := range emps {
		row := make([]string, 0, len(headers))
		row = append(row, Truncate(emp.FullName, nameWidth))
		for c, d := range days {
			shift, ok := s.Cell(emp.ID, d)
			label := s.CellLabel(emp.ID, d)
			if cur.Active && cur.Row == r && cur.Col == c {
				row = append(row, StyleCursor.Render(label))
				continue
			}
			row = append(row, CellStyle(shift, ok).Render(label))
		}
		row = append(row, RenderTotal(totals[r]))
		rows = append(rows, row)
	}

	return Table{
		Headers:    headers,
		Rows:       rows,
		RightAlign: map[int]bool{len(headers) - 1: true},
	}.Render()
}

// RenderTotal renders "assigned/target" colored by status.
func RenderTotal(t grid.Total) string {
	text := fmt.Sprintf("%d/%s", t.Hours, FormatHours(t.Target))
	return HoursColor(t.Status).Render(text)
}

// RenderOutcome renders the result of a submission as one line.
func RenderOutcome(out grid.Outcome) string {
	switch out.Kind {
	case grid.OutcomeSuccess:
		msg := fmt.Sprintf("✔ Shifts saved: %d created, %d updated", out.Created, out.Updated)
		if out.Skipped > 0 {
			msg += fmt.Sprintf(", %d skipped", out.Skipped)
		}
		return StyleGreen.Render(msg)
	case grid.OutcomeNoChanges:
		return StyleYellow.Render("No changes to save.")
	case grid.OutcomeConnectionError:
		return StyleRed.Render("✘ Connection error: " + out.Message)
	default:
		msg := "✘ " + out.Message
		if n := len(out.Incidents); n > 0 {
			msg += fmt.Sprintf(" (%d incidents)", n)
		}
		return StyleRed.Render(msg)
	}
}

// RenderIncidents lists submission incidents. names maps employee ids to
// display names; unknown ids are shown as-is.
func RenderIncidents(incidents []domain.Incident, names map[string]string) string {
	if len(incidents) == 0 {
		return Dim("No incidents.")
	}
	rows := make([][]string, 0, len(incidents))
	for _, in := range incidents {
		who := in.EmployeeID
		if n, ok := names[in.EmployeeID]; ok && n != "" {
			who = n + Dim(" ("+in.EmployeeID+")")
		}
		rows = append(rows, []string{
			SeverityIndicator(in.Severity),
			who,
			SeverityColor(in.Severity).Render(in.Message),
		})
	}
	return RenderTable([]string{"SEVERITY", "EMPLOYEE", "MESSAGE"}, rows)
}
