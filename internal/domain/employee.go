package domain

import "time"

// EmployeeRef is a roster entry. ID is the stable document number.
type EmployeeRef struct {
	ID                    string
	FullName              string
	ContractedWeeklyHours float64
	Position              string
	StoreID               string
	StoreName             string
	DepartmentID          string
	DepartmentName        string
}

type Store struct {
	ID   string
	Name string
}

type Department struct {
	ID   string
	Name string
}

// DayAssignment pairs a calendar day with its assigned shift.
type DayAssignment struct {
	Date  time.Time
	Shift AssignedShift
}

// WeeklyAssignment is one employee's shifts for one week. Week is 1-based.
type WeeklyAssignment struct {
	Week                     int
	EffectiveContractedHours float64
	Days                     []DayAssignment
}

// Severity of a submission incident.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Incident is a per-employee problem reported by a submission.
type Incident struct {
	EmployeeID string
	Message    string
	Severity   Severity
}
