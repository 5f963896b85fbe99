package grid

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/turnityapi"
)

// ShiftSource is the backend endpoint returning stored employee shifts.
type ShiftSource interface {
	EmployeeShifts(ctx context.Context, req turnityapi.EmployeeShiftsRequest) ([]turnityapi.EmployeeShiftsDTO, error)
}

// WeekHoursKey addresses one employee's contracted hours in one week.
// Week is 1-based, matching the backend.
type WeekHoursKey struct {
	EmployeeID string
	Week       int
}

// LoadResult is the classified content of a stored-shift fetch.
type LoadResult struct {
	Cells       map[Key]domain.AssignedShift
	WeeklyHours map[WeekHoursKey]float64
	// Dropped counts records outside the loaded weeks or with bad dates.
	Dropped int
}

// LoadState is the lifecycle of the session's stored-shift load.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader bulk-fetches previously stored shifts for a roster.
type Loader struct {
	src ShiftSource
	log logrus.FieldLogger
}

func NewLoader(src ShiftSource, log logrus.FieldLogger) *Loader {
	return &Loader{src: src, log: log}
}

// Load fetches and classifies stored shifts for employees across weeks.
func (l *Loader) Load(ctx context.Context, employees []domain.EmployeeRef, weeks []domain.Week) (*LoadResult, error) {
	start, end, ok := domain.WeekSpan(weeks)
	if !ok {
		return nil, ErrNoWeeks
	}

	ids := make([]string, 0, len(employees))
	roster := make(map[string]bool, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
		roster[e.ID] = true
	}

	res := &LoadResult{
		Cells:       make(map[Key]domain.AssignedShift),
		WeeklyHours: make(map[WeekHoursKey]float64),
	}
	if len(ids) == 0 {
		return res, nil
	}

	raw, err := l.src.EmployeeShifts(ctx, turnityapi.EmployeeShiftsRequest{
		Employees: ids,
		StartDate: domain.FormatDate(start),
		EndDate:   domain.FormatDate(end),
		NumWeeks:  len(weeks),
	})
	if err != nil {
		return nil, fmt.Errorf("loading stored shifts: %w", err)
	}

	for _, emp := range raw {
		id := string(emp.Employee)
		if !roster[id] {
			for _, wk := range emp.WeeklyShifts {
				res.Dropped += len(wk.Shifts)
			}
			continue
		}
		for _, wk := range emp.WeeklyShifts {
			if wk.WorkingDay > 0 && wk.Week >= 1 && wk.Week <= len(weeks) {
				res.WeeklyHours[WeekHoursKey{EmployeeID: id, Week: wk.Week}] = float64(wk.WorkingDay)
			}
			for _, rec := range wk.Shifts {
				date, err := domain.ParseDate(rec.Date)
				if err != nil || domain.WeekIndexOf(weeks, date) < 0 {
					res.Dropped++
					continue
				}
				res.Cells[NewKey(id, date)] = domain.Classify(rec.Record())
			}
		}
	}

	l.log.WithFields(logrus.Fields{
		"employees": len(ids),
		"cells":     len(res.Cells),
		"dropped":   res.Dropped,
	}).Debug("stored shifts loaded")
	return res, nil
}

// EffectiveHours returns the contracted hours for emp in the 1-based week,
// preferring the per-week override reported at load time.
func EffectiveHours(weekly map[WeekHoursKey]float64, emp domain.EmployeeRef, week int) float64 {
	return domain.CoalesceFloat(weekly[WeekHoursKey{EmployeeID: emp.ID, Week: week}], emp.ContractedWeeklyHours)
}

// Assemble arranges the store's cells into per-week assignments for one
// employee. Days without an entry are rest days.
func Assemble(store *Store, weekly map[WeekHoursKey]float64, emp domain.EmployeeRef, weeks []domain.Week) []domain.WeeklyAssignment {
	out := make([]domain.WeeklyAssignment, 0, len(weeks))
	for i, w := range weeks {
		wa := domain.WeeklyAssignment{
			Week:                     i + 1,
			EffectiveContractedHours: EffectiveHours(weekly, emp, i+1),
		}
		for _, d := range w.Days() {
			shift, ok := store.Get(NewKey(emp.ID, d))
			if !ok {
				shift = domain.RestShift()
			}
			wa.Days = append(wa.Days, domain.DayAssignment{Date: d, Shift: shift})
		}
		out = append(out, wa)
	}
	return out
}
