package grid

import (
	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/turnityapi"
)

// Payload is the month submission body.
type Payload = turnityapi.CreateShiftsRequest

// Scope is the store and department a grid session schedules.
type Scope struct {
	Store      domain.Store
	Department domain.Department
}

// BuildInput is everything BuildPayload reads.
type BuildInput struct {
	Store       *Store
	Scope       Scope
	Weeks       []domain.Week
	Employees   []domain.EmployeeRef
	WeeklyHours map[WeekHoursKey]float64
}

// BuildPayload reconstructs the full submission from the lookup store.
// Every employee gets exactly one record for every day from the first
// week's start to the last week's end; days with no entry are rest days.
func BuildPayload(in BuildInput) (Payload, error) {
	if in.Scope.Store.ID == "" {
		return Payload{}, &ValidationError{Field: "store", Message: "select a store"}
	}
	if in.Scope.Department.ID == "" {
		return Payload{}, &ValidationError{Field: "department", Message: "select a department"}
	}
	if len(in.Weeks) == 0 {
		return Payload{}, &ValidationError{Field: "weeks", Message: "no weeks loaded"}
	}
	if err := domain.ValidateWeeks(in.Weeks); err != nil {
		return Payload{}, &ValidationError{Field: "weeks", Message: err.Error()}
	}

	store := in.Store
	if store == nil {
		store = NewStore()
	}

	p := Payload{
		StoreID:        in.Scope.Store.ID,
		DepartmentID:   in.Scope.Department.ID,
		NumWeeks:       len(in.Weeks),
		EmployeeShifts: make([]turnityapi.EmployeeShiftPayload, 0, len(in.Employees)),
	}
	for _, emp := range in.Employees {
		ep := turnityapi.EmployeeShiftPayload{Employee: emp.ID}
		for _, wa := range Assemble(store, in.WeeklyHours, emp, in.Weeks) {
			wp := turnityapi.WeekShiftPayload{
				Week:       wa.Week,
				WorkingDay: wa.EffectiveContractedHours,
				Shifts:     make([]turnityapi.DayShiftPayload, 0, len(wa.Days)),
			}
			for _, day := range wa.Days {
				wp.Shifts = append(wp.Shifts, DayRecord(day, wa.EffectiveContractedHours))
			}
			ep.WeeklyShifts = append(ep.WeeklyShifts, wp)
		}
		p.EmployeeShifts = append(p.EmployeeShifts, ep)
	}
	return p, nil
}

// RestRecord is the record emitted for a day with no assignment.
func RestRecord(date string) turnityapi.DayShiftPayload {
	return turnityapi.DayShiftPayload{
		Date:        date,
		Turn:        domain.RestToken,
		Hours:       0,
		Break:       domain.DefaultBreak,
		InitialHour: domain.DefaultStart,
	}
}

// DayRecord converts one day's assignment to its wire record.
func DayRecord(day domain.DayAssignment, contracted float64) turnityapi.DayShiftPayload {
	date := domain.FormatDate(day.Date)
	shift := day.Shift
	switch shift.Kind {
	case domain.KindSpecialLeave:
		rec := RestRecord(date)
		rec.Turn = shift.Leave.Token()
		rec.Hours = domain.SpecialLeaveHours(contracted)
		return rec
	case domain.KindTimed:
		if shift.Shift == nil {
			return RestRecord(date)
		}
		def := shift.Shift
		end := def.EndTime
		if end == "" {
			end = domain.EndClock(def.StartTime, shift.HoursBucket) + ":00"
		}
		return turnityapi.DayShiftPayload{
			Date:        date,
			Turn:        def.Code,
			Hours:       shift.HoursBucket,
			Break:       domain.CoalesceStr(shift.Break, def.Break, domain.DefaultBreak),
			InitialHour: domain.CoalesceStr(def.StartTime, domain.DefaultStart),
			EndHour:     end,
		}
	default:
		return RestRecord(date)
	}
}
