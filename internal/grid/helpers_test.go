package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/logging"
	"github.com/turnity/turnity/internal/testutil"
	"github.com/turnity/turnity/internal/turnityapi"
)

var testScope = Scope{Store: testutil.TestStore, Department: testutil.TestDepartment}

func day(s string) time.Time { return testutil.MustDate(s) }

func record(date, turn string, hours float64, start string) turnityapi.ShiftRecordDTO {
	return turnityapi.ShiftRecordDTO{
		Date:        date,
		Turn:        turnityapi.FlexString(turn),
		Hours:       turnityapi.FlexFloat(hours),
		InitialHour: start,
		Break:       domain.DefaultBreak,
	}
}

func storedWeek(week int, workingDay float64, recs ...turnityapi.ShiftRecordDTO) turnityapi.WeeklyShiftsDTO {
	return turnityapi.WeeklyShiftsDTO{Week: week, WorkingDay: turnityapi.FlexFloat(workingDay), Shifts: recs}
}

// newTestSession mounts a session for June 2024 against a fake backend,
// with the fake's S1/D1 roster.
func newTestSession(t *testing.T, fb *testutil.FakeBackend) *Session {
	t.Helper()
	s, err := NewSession(SessionOptions{
		User:      testutil.NewTestUser("1001", domain.RoleManager),
		Scope:     testScope,
		Employees: FilterRoster(fb.Employees, testScope),
		Backend:   fb.Client("tok"),
		Reference: day("2024-06-15"),
		Log:       logging.Discard(),
	})
	require.NoError(t, err)
	return s
}

func loadedSession(t *testing.T, fb *testutil.FakeBackend) *Session {
	t.Helper()
	s := newTestSession(t, fb)
	require.NoError(t, s.LoadMonth(t.Context()))
	return s
}

// fetchAll runs catalog requests through the session and applies them.
func fetchAll(t *testing.T, s *Session, reqs ...CatalogRequest) {
	t.Helper()
	for _, r := range reqs {
		s.ApplyCatalog(s.FetchCatalog(t.Context(), r))
	}
}
