package testutil

import (
	"fmt"
	"time"

	"github.com/turnity/turnity/internal/domain"
)

// NewTestUser returns a user with a single role.
func NewTestUser(document, role string) domain.User {
	return domain.User{
		Document: document,
		FullName: "User " + document,
		Email:    document + "@turnity.test",
		Roles:    []string{role},
		IsAdmin:  role == domain.RoleAdmin,
	}
}

// Employee options
type EmployeeOption func(*domain.EmployeeRef)

func WithContracted(h float64) EmployeeOption {
	return func(e *domain.EmployeeRef) {
		e.ContractedWeeklyHours = h
	}
}

func WithPosition(p string) EmployeeOption {
	return func(e *domain.EmployeeRef) {
		e.Position = p
	}
}

func WithScope(store domain.Store, dept domain.Department) EmployeeOption {
	return func(e *domain.EmployeeRef) {
		e.StoreID, e.StoreName = store.ID, store.Name
		e.DepartmentID, e.DepartmentName = dept.ID, dept.Name
	}
}

func NewTestEmployee(id, name string, opts ...EmployeeOption) domain.EmployeeRef {
	e := domain.EmployeeRef{
		ID:                    id,
		FullName:              name,
		ContractedWeeklyHours: 46,
		Position:              "Cajero",
		StoreID:               TestStore.ID,
		StoreName:             TestStore.Name,
		DepartmentID:          TestDepartment.ID,
		DepartmentName:        TestDepartment.Name,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

var (
	TestStore      = domain.Store{ID: "S1", Name: "Centro"}
	TestDepartment = domain.Department{ID: "D1", Name: "Cajas"}
)

// MustDate parses YYYY-MM-DD and panics on error.
func MustDate(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("testutil.MustDate(%q): %v", s, err))
	}
	return t
}

// ContiguousWeeks returns n seven-day weeks starting at start.
func ContiguousWeeks(start string, n int) []domain.Week {
	d := MustDate(start)
	weeks := make([]domain.Week, 0, n)
	for i := 0; i < n; i++ {
		weeks = append(weeks, domain.Week{Start: d, End: d.AddDate(0, 0, 6)})
		d = d.AddDate(0, 0, 7)
	}
	return weeks
}

// JuneWeeks is the partition the fake backend returns for June 2024 by
// default: five Monday-to-Sunday weeks from 2024-05-27 to 2024-06-30.
func JuneWeeks() []domain.Week {
	return ContiguousWeeks("2024-05-27", 5)
}

// NewTestShiftDef returns a catalog shift starting at start and lasting hours.
func NewTestShiftDef(code, start string, hours int) domain.ShiftDefinition {
	return domain.ShiftDefinition{
		Code:      code,
		StartTime: start,
		EndTime:   domain.EndClock(start, hours) + ":00",
		Hours:     hours,
		Break:     domain.DefaultBreak,
	}
}
