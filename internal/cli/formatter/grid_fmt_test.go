package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/testutil"
	"github.com/turnity/turnity/internal/turnityapi"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func loadedSession(t *testing.T) *grid.Session {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	fb.Store("100", turnityapi.WeeklyShiftsDTO{
		Week:       2,
		WorkingDay: 46,
		Shifts: []turnityapi.ShiftRecordDTO{
			{Date: "2024-06-03", Turn: "M8", Hours: 8, InitialHour: "06:00:00"},
			{Date: "2024-06-04", Turn: "VACACIONES", Hours: 8},
		},
	})
	scope := grid.Scope{Store: testutil.TestStore, Department: testutil.TestDepartment}
	s, err := grid.NewSession(grid.SessionOptions{
		User:      testutil.NewTestUser("1001", domain.RoleManager),
		Scope:     scope,
		Employees: grid.FilterRoster(fb.Employees, scope),
		Backend:   fb.Client("tok"),
		Reference: testutil.MustDate("2024-06-15"),
		Log:       logging.Discard(),
	})
	require.NoError(t, err)
	require.NoError(t, s.LoadMonth(t.Context()))
	return s
}

func TestRenderWeek_CellsAndTotals(t *testing.T) {
	s := loadedSession(t)

	out := stripANSI(RenderWeek(s, 1, Cursor{}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, separator and two employees")

	assert.Contains(t, lines[0], "EMPLOYEE")
	assert.Contains(t, lines[0], "MON 03")
	assert.Contains(t, lines[0], "HOURS")

	ana := lines[2]
	assert.Contains(t, ana, "Ana Gómez")
	assert.Contains(t, ana, "8Hras (06:00)")
	assert.Contains(t, ana, "VACACIONES")
	assert.Contains(t, ana, grid.FreeLabel)
	assert.True(t, strings.HasSuffix(ana, "16/46"), "got %q", ana)

	luis := lines[3]
	assert.Contains(t, luis, "Luis Pérez")
	assert.True(t, strings.HasSuffix(luis, "0/36"), "got %q", luis)
}

func TestRenderWeek_OutOfRange(t *testing.T) {
	s := loadedSession(t)
	assert.Contains(t, stripANSI(RenderWeek(s, 9, Cursor{})), "No weeks loaded")
}

func TestRenderWeekTabs(t *testing.T) {
	weeks := testutil.JuneWeeks()
	out := stripANSI(RenderWeekTabs(weeks, 0))
	assert.Contains(t, out, "1: 27 - 02")
	assert.Contains(t, out, "5: 24 - 30")
	assert.Equal(t, "no weeks", stripANSI(RenderWeekTabs(nil, 0)))
}

func TestRenderWeekList(t *testing.T) {
	out := stripANSI(RenderWeekList(testutil.JuneWeeks()))
	assert.Contains(t, out, "2024-05-27")
	assert.Contains(t, out, "2024-06-30")
	assert.Equal(t, 7, strings.Count(out, "\n"))
}

func TestRenderOutcome(t *testing.T) {
	tests := []struct {
		name string
		out  grid.Outcome
		want string
	}{
		{"success", grid.Outcome{Kind: grid.OutcomeSuccess, Created: 3, Updated: 1}, "Shifts saved: 3 created, 1 updated"},
		{"skipped", grid.Outcome{Kind: grid.OutcomeSuccess, Created: 1, Skipped: 2}, "2 skipped"},
		{"no changes", grid.Outcome{Kind: grid.OutcomeNoChanges}, "No changes to save."},
		{"failure", grid.Outcome{Kind: grid.OutcomeFailure, Message: "rejected", Incidents: make([]domain.Incident, 2)}, "rejected (2 incidents)"},
		{"connection", grid.Outcome{Kind: grid.OutcomeConnectionError, Message: "could not reach the server"}, "Connection error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, stripANSI(RenderOutcome(tt.out)), tt.want)
		})
	}
}

func TestRenderIncidents(t *testing.T) {
	incidents := []domain.Incident{
		{EmployeeID: "100", Message: "exceeds weekly hours", Severity: domain.SeverityError},
		{EmployeeID: "999", Message: "check rest day", Severity: domain.SeverityWarning},
	}
	out := stripANSI(RenderIncidents(incidents, map[string]string{"100": "Ana Gómez"}))
	assert.Contains(t, out, "● ERROR")
	assert.Contains(t, out, "Ana Gómez (100)")
	assert.Contains(t, out, "● WARNING")
	assert.Contains(t, out, "999")

	assert.Equal(t, "No incidents.", stripANSI(RenderIncidents(nil, nil)))
}

func TestTable_RightAlign(t *testing.T) {
	out := stripANSI(Table{
		Headers:    []string{"NAME", "N"},
		Rows:       [][]string{{"a", "1"}, {"bb", "100"}},
		RightAlign: map[int]bool{1: true},
	}.Render())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "a       1", lines[2])
	assert.Equal(t, "bb    100", lines[3])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Ana", Truncate("Ana", 5))
	assert.Equal(t, "Alej…", Truncate("Alejandra", 5))
	assert.Equal(t, "…", Truncate("Alejandra", 1))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "46", FormatHours(46))
	assert.Equal(t, "45.5", FormatHours(45.5))
}
