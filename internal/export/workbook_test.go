package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/testutil"
	"github.com/turnity/turnity/internal/turnityapi"
)

func loadedSession(t *testing.T) *grid.Session {
	t.Helper()
	s, _ := loadedSessionWithBackend(t)
	return s
}

func loadedSessionWithBackend(t *testing.T) (*grid.Session, *testutil.FakeBackend) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	fb.Store("100", turnityapi.WeeklyShiftsDTO{Week: 2, Shifts: []turnityapi.ShiftRecordDTO{
		{Date: "2024-06-03", Turn: "M8", Hours: 8, InitialHour: "06:00:00", EndHour: "14:00:00", Break: "00:30:00"},
		{Date: "2024-06-04", Turn: "VACACIONES"},
	}})
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
	return s, fb
}

func TestRows_CoverEveryEmployeeDay(t *testing.T) {
	s := loadedSession(t)

	rows, err := Rows(s)
	require.NoError(t, err)
	assert.Len(t, rows, 70)

	byKey := map[string]Row{}
	for _, r := range rows {
		byKey[r.EmployeeID+"@"+r.Date] = r
	}
	timed := byKey["100@2024-06-03"]
	assert.Equal(t, "M8", timed.ShiftCode)
	assert.Equal(t, "06:00", timed.Start)
	assert.Equal(t, "14:00", timed.End)
	assert.Equal(t, 8, timed.Hours)
	assert.Equal(t, "8Hras (06:00)", timed.Label)
	assert.Equal(t, "Centro", timed.Store)
	assert.Equal(t, "1001", timed.ManagerID)

	leave := byKey["100@2024-06-04"]
	assert.Equal(t, "VACACIONES", leave.Label)
	assert.Equal(t, 8, leave.Hours)

	free := byKey["200@2024-06-20"]
	assert.Equal(t, grid.FreeLabel, free.Label)
	assert.Equal(t, "X", free.ShiftCode)
	assert.Equal(t, 36.0, free.WorkingDay)
}

func TestRows_RefusesUnloadedMonth(t *testing.T) {
	s, fb := loadedSessionWithBackend(t)
	fb.SetFail("/employeeshift/by-employee-list/", 502)
	require.Error(t, s.Reload(t.Context()))

	_, err := Rows(s)
	assert.ErrorIs(t, err, grid.ErrNotLoaded)

	var buf bytes.Buffer
	_, err = WriteMonthWorkbook(&buf, s)
	assert.ErrorIs(t, err, grid.ErrNotLoaded)
	assert.Zero(t, buf.Len())
}

func TestWriteMonthWorkbook(t *testing.T) {
	s := loadedSession(t)
	var buf bytes.Buffer

	n, err := WriteMonthWorkbook(&buf, s)
	require.NoError(t, err)
	assert.Equal(t, 70, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 71)
	assert.Equal(t, "codigo_persona", rows[0][0])
	assert.Equal(t, "posicion", rows[0][len(columns)-1])

	width, err := f.GetColWidth(SheetName, "B")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestWriteWorkbook_EmptyRowsStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
