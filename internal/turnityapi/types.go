package turnityapi

import (
	"encoding/json"

	"github.com/turnity/turnity/internal/domain"
)

// WeekDTO is a week as the partitioner endpoint sends it.
type WeekDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type generateWeeksRequest struct {
	Date string `json:"date"`
}

type generateWeeksResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Weeks struct {
			Weeks []WeekDTO `json:"weeks"`
		} `json:"weeks"`
	} `json:"data"`
}

// EmployeeShiftsRequest is the body of POST /employeeshift/by-employee-list/.
type EmployeeShiftsRequest struct {
	Employees []string `json:"employees"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	NumWeeks  int      `json:"numWeeks"`
}

// ShiftRecordDTO is one stored day record.
type ShiftRecordDTO struct {
	Date        string     `json:"date"`
	Turn        FlexString `json:"turn"`
	CodeShift   string     `json:"code_shift,omitempty"`
	Hours       FlexFloat  `json:"hours"`
	InitialHour string     `json:"initial_hour"`
	EndHour     string     `json:"end_hour"`
	Break       string     `json:"break"`
}

// Record converts the DTO into the domain raw record.
func (r ShiftRecordDTO) Record() domain.ShiftRecord {
	return domain.ShiftRecord{
		Date:      r.Date,
		Turn:      string(r.Turn),
		Code:      r.CodeShift,
		Hours:     int(r.Hours),
		StartTime: r.InitialHour,
		EndTime:   r.EndHour,
		Break:     r.Break,
	}
}

// WeeklyShiftsDTO groups an employee's records for one week.
type WeeklyShiftsDTO struct {
	Week       int              `json:"week"`
	WorkingDay FlexFloat        `json:"working_day"`
	Shifts     []ShiftRecordDTO `json:"shifts"`
}

// EmployeeShiftsDTO is one employee's stored weeks.
type EmployeeShiftsDTO struct {
	Employee     FlexString        `json:"employee"`
	WeeklyShifts []WeeklyShiftsDTO `json:"weeklyShifts"`
}

type employeeShiftsResponse struct {
	EmployeeShifts []EmployeeShiftsDTO `json:"employeeShifts"`
}

// DayShiftPayload is one day record in a submission.
type DayShiftPayload struct {
	Date        string `json:"date"`
	Turn        string `json:"turn"`
	Hours       int    `json:"hours"`
	Break       string `json:"break"`
	InitialHour string `json:"initial_hour"`
	EndHour     string `json:"end_hour,omitempty"`
}

// WeekShiftPayload is one employee-week in a submission.
type WeekShiftPayload struct {
	Week       int               `json:"week"`
	WorkingDay float64           `json:"working_day"`
	Shifts     []DayShiftPayload `json:"shifts"`
}

// EmployeeShiftPayload is one employee in a submission.
type EmployeeShiftPayload struct {
	Employee     string             `json:"employee"`
	WeeklyShifts []WeekShiftPayload `json:"weeklyShifts"`
}

// CreateShiftsRequest is the body of POST /employeeshift/create.
type CreateShiftsRequest struct {
	StoreID        string                 `json:"storeId"`
	DepartmentID   string                 `json:"departmentId"`
	NumWeeks       int                    `json:"numWeeks"`
	EmployeeShifts []EmployeeShiftPayload `json:"employeeShifts"`
}

// IncidentDTO is a per-employee submission problem. Older backends send
// id_employee instead of employeeId.
type IncidentDTO struct {
	EmployeeID FlexString `json:"employeeId"`
	IDEmployee FlexString `json:"id_employee"`
	Message    string     `json:"message"`
	Type       string     `json:"type"`
}

// Incident converts the DTO to a domain incident. Unknown types are errors.
func (d IncidentDTO) Incident() domain.Incident {
	sev := domain.SeverityError
	if d.Type == string(domain.SeverityWarning) {
		sev = domain.SeverityWarning
	}
	return domain.Incident{
		EmployeeID: domain.CoalesceStr(string(d.EmployeeID), string(d.IDEmployee)),
		Message:    d.Message,
		Severity:   sev,
	}
}

// CreateShiftsResponse is the tri-count submission result.
type CreateShiftsResponse struct {
	Results struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
		Skipped int `json:"skipped"`
	} `json:"results"`
	Errors  []IncidentDTO `json:"errors"`
	Message string        `json:"message,omitempty"`
}

// Incidents converts every reported error.
func (r CreateShiftsResponse) Incidents() []domain.Incident {
	out := make([]domain.Incident, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Incident())
	}
	return out
}

type shiftDefinitionDTO struct {
	CodeShift   FlexString `json:"code_shift"`
	InitialHour string     `json:"initial_hour"`
	EndHour     string     `json:"end_hour"`
	Hours       FlexFloat  `json:"hours"`
	Break       string     `json:"break"`
}

type breaksResponse struct {
	Breaks []json.RawMessage `json:"breaks"`
}

type userDTO struct {
	NumberDocument FlexString   `json:"number_document"`
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Roles          []string     `json:"roles"`
	IsAdmin        bool         `json:"isAdmin"`
	Stores         []FlexString `json:"stores"`
}

func (u userDTO) user() domain.User {
	stores := make([]string, 0, len(u.Stores))
	for _, s := range u.Stores {
		stores = append(stores, string(s))
	}
	return domain.User{
		Document: string(u.NumberDocument),
		FullName: u.FullName,
		Email:    u.Email,
		Roles:    u.Roles,
		IsAdmin:  u.IsAdmin,
		Stores:   stores,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  *userDTO `json:"user"`
}

// LoginResult is a successful login. User is nil when the backend omitted it.
type LoginResult struct {
	Token string
	User  *domain.User
}

type storeDTO struct {
	ID   FlexString `json:"id_store"`
	Name string     `json:"name_store"`
}

type departmentDTO struct {
	ID     FlexString `json:"id_department"`
	LinkID FlexString `json:"id_store_dep"`
	Name   string     `json:"name_department"`
}

type employeeDTO struct {
	NumberDocument FlexString `json:"number_document"`
	FullName       string     `json:"full_name"`
	WorkingDay     FlexFloat  `json:"working_day"`
	Position       string     `json:"name_position"`
	StoreID        FlexString `json:"id_store"`
	StoreName      string     `json:"name_store"`
	DepartmentID   FlexString `json:"id_department"`
	DepartmentName string     `json:"name_department"`
}

func (e employeeDTO) employee() domain.EmployeeRef {
	return domain.EmployeeRef{
		ID:                    string(e.NumberDocument),
		FullName:              e.FullName,
		ContractedWeeklyHours: float64(e.WorkingDay),
		Position:              e.Position,
		StoreID:               string(e.StoreID),
		StoreName:             e.StoreName,
		DepartmentID:          string(e.DepartmentID),
		DepartmentName:        e.DepartmentName,
	}
}
