package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeek_DaysInclusive(t *testing.T) {
	w := Week{Start: mustDate(t, "2025-06-02"), End: mustDate(t, "2025-06-08")}
	days := w.Days()
	require.Len(t, days, 7)
	assert.Equal(t, "2025-06-02", FormatDate(days[0]))
	assert.Equal(t, "2025-06-08", FormatDate(days[6]))
	assert.Equal(t, "02 - 08", w.Label())
}

func TestWeek_TruncatedBoundaryWeek(t *testing.T) {
	w := Week{Start: mustDate(t, "2025-06-30"), End: mustDate(t, "2025-06-30")}
	assert.Len(t, w.Days(), 1)
	assert.True(t, w.Contains(mustDate(t, "2025-06-30")))
	assert.False(t, w.Contains(mustDate(t, "2025-07-01")))
}

func TestValidateWeeks(t *testing.T) {
	ok := []Week{
		{Start: mustDate(t, "2025-06-02"), End: mustDate(t, "2025-06-08")},
		{Start: mustDate(t, "2025-06-09"), End: mustDate(t, "2025-06-15")},
	}
	assert.NoError(t, ValidateWeeks(ok))
	assert.NoError(t, ValidateWeeks(nil))

	gap := []Week{ok[0], {Start: mustDate(t, "2025-06-10"), End: mustDate(t, "2025-06-16")}}
	err := ValidateWeeks(gap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "week 2")

	inverted := []Week{{Start: mustDate(t, "2025-06-08"), End: mustDate(t, "2025-06-02")}}
	assert.Error(t, ValidateWeeks(inverted))
}

func TestParseDate_AcceptsTimestamps(t *testing.T) {
	d, err := ParseDate("2025-06-02T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", FormatDate(d))

	_, err = ParseDate("02/06/2025")
	assert.Error(t, err)
}

func TestWeekIndexOf(t *testing.T) {
	weeks := []Week{
		{Start: mustDate(t, "2025-06-02"), End: mustDate(t, "2025-06-08")},
		{Start: mustDate(t, "2025-06-09"), End: mustDate(t, "2025-06-15")},
	}
	assert.Equal(t, 1, WeekIndexOf(weeks, mustDate(t, "2025-06-12")))
	assert.Equal(t, -1, WeekIndexOf(weeks, mustDate(t, "2025-07-01")))
}

func TestUser_CanAccess(t *testing.T) {
	admin := User{Roles: []string{RoleAdmin}}
	boss := User{Roles: []string{RoleManager}}
	plain := User{Roles: []string{RoleUser}}

	assert.True(t, admin.CanAccess(RoleManager))
	assert.True(t, boss.CanAccess(RoleManager))
	assert.False(t, plain.CanAccess(RoleManager))

	u := User{IsAdmin: true}
	u.NormalizeRoles()
	assert.Equal(t, []string{RoleAdmin}, u.Roles)
	u2 := User{}
	u2.NormalizeRoles()
	assert.Equal(t, RoleUser, u2.PrimaryRole())
}
