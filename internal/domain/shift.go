package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RestToken is the turn value the backend uses for a free day.
const RestToken = "X"

// DefaultBreak and DefaultStart fill day records that carry no timed shift.
const (
	DefaultBreak = "01:00:00"
	DefaultStart = "00:00:00"
)

// SpecialLeave is the closed set of non-worked day categories.
type SpecialLeave int

const (
	LeaveBirthday SpecialLeave = iota + 1
	LeaveVacation
	LeaveDisability
	LeaveJuryDuty
	LeaveFamilyDay
	LeaveLicense
	LeaveDayOff
)

var leaveTokens = map[SpecialLeave]string{
	LeaveBirthday:   "CUMPLEAÑOS",
	LeaveVacation:   "VACACIONES",
	LeaveDisability: "INCAPACIDAD",
	LeaveJuryDuty:   "JURADO VOT",
	LeaveFamilyDay:  "DIA_FAMILIA",
	LeaveLicense:    "LICENCIA",
	LeaveDayOff:     "DIA_DISFRUTE",
}

// SpecialLeaves returns every leave type in declaration order.
func SpecialLeaves() []SpecialLeave {
	return []SpecialLeave{
		LeaveBirthday, LeaveVacation, LeaveDisability, LeaveJuryDuty,
		LeaveFamilyDay, LeaveLicense, LeaveDayOff,
	}
}

// Token returns the wire token, e.g. "VACACIONES".
func (l SpecialLeave) Token() string {
	return leaveTokens[l]
}

func (l SpecialLeave) String() string {
	if t, ok := leaveTokens[l]; ok {
		return t
	}
	return fmt.Sprintf("SpecialLeave(%d)", int(l))
}

// ParseSpecialLeave maps a wire token to its leave type.
func ParseSpecialLeave(token string) (SpecialLeave, bool) {
	token = strings.TrimSpace(token)
	for l, t := range leaveTokens {
		if t == token {
			return l, true
		}
	}
	return 0, false
}

// ShiftDefinition is a catalog timed shift. Read-only reference data.
type ShiftDefinition struct {
	Code      string
	StartTime string // HH:MM:SS
	EndTime   string
	Hours     int
	Break     string
}

// ShiftKind tags the variant held by an AssignedShift.
type ShiftKind int

const (
	KindRest ShiftKind = iota
	KindSpecialLeave
	KindTimed
)

func (k ShiftKind) String() string {
	switch k {
	case KindRest:
		return "rest"
	case KindSpecialLeave:
		return "special_leave"
	case KindTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// AssignedShift is the value held per (employee, date) in the lookup store.
// Leave is set only for KindSpecialLeave; Shift, HoursBucket and Break only
// for KindTimed.
type AssignedShift struct {
	Kind        ShiftKind
	Leave       SpecialLeave
	Shift       *ShiftDefinition
	HoursBucket int
	Break       string
}

// RestShift returns a free-day assignment.
func RestShift() AssignedShift {
	return AssignedShift{Kind: KindRest}
}

// LeaveShift returns a special-leave assignment.
func LeaveShift(l SpecialLeave) AssignedShift {
	return AssignedShift{Kind: KindSpecialLeave, Leave: l}
}

// TimedShift returns a timed assignment for def in the given hour bucket.
func TimedShift(def ShiftDefinition, bucket int, brk string) AssignedShift {
	d := def
	return AssignedShift{Kind: KindTimed, Shift: &d, HoursBucket: bucket, Break: brk}
}

// Validate enforces the per-kind invariants.
func (a AssignedShift) Validate() error {
	switch a.Kind {
	case KindRest:
		if a.Shift != nil {
			return fmt.Errorf("rest assignment carries a shift")
		}
	case KindSpecialLeave:
		if _, ok := leaveTokens[a.Leave]; !ok {
			return fmt.Errorf("unknown special leave %d", int(a.Leave))
		}
		if a.Shift != nil {
			return fmt.Errorf("special leave %s carries a shift", a.Leave)
		}
	case KindTimed:
		if a.HoursBucket <= 0 {
			return fmt.Errorf("timed assignment needs a positive hour bucket, got %d", a.HoursBucket)
		}
		if a.Shift == nil || a.Shift.Code == "" {
			return fmt.Errorf("timed assignment needs a shift code")
		}
	default:
		return fmt.Errorf("unknown shift kind %d", int(a.Kind))
	}
	return nil
}

// Label is the text shown in a grid cell. Rest renders empty; callers show
// "Libre" in its place.
func (a AssignedShift) Label() string {
	switch a.Kind {
	case KindSpecialLeave:
		return a.Leave.Token()
	case KindTimed:
		start := ""
		if a.Shift != nil {
			start = ClockHHMM(a.Shift.StartTime)
		}
		return fmt.Sprintf("%dHras (%s)", a.HoursBucket, start)
	default:
		return ""
	}
}

// EffectiveHours is the hour count this assignment contributes to a week
// whose contracted hours are contracted.
func (a AssignedShift) EffectiveHours(contracted float64) int {
	switch a.Kind {
	case KindTimed:
		return a.HoursBucket
	case KindSpecialLeave:
		return SpecialLeaveHours(contracted)
	default:
		return 0
	}
}

// Turn returns the wire turn value for the assignment.
func (a AssignedShift) Turn() string {
	switch a.Kind {
	case KindSpecialLeave:
		return a.Leave.Token()
	case KindTimed:
		if a.Shift != nil {
			return a.Shift.Code
		}
	}
	return RestToken
}

// ShiftRecord is a raw day record as the backend reports it.
type ShiftRecord struct {
	Date      string
	Turn      string
	Code      string
	Hours     int
	StartTime string
	EndTime   string
	Break     string
}

// Classify turns a raw record into an AssignedShift.
func Classify(rec ShiftRecord) AssignedShift {
	turn := strings.TrimSpace(rec.Turn)
	if turn == RestToken {
		return RestShift()
	}
	if l, ok := ParseSpecialLeave(turn); ok {
		return LeaveShift(l)
	}
	def := ShiftDefinition{
		Code:      CoalesceStr(strings.TrimSpace(rec.Code), turn),
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Hours:     rec.Hours,
		Break:     rec.Break,
	}
	return TimedShift(def, rec.Hours, rec.Break)
}

// ClockHHMM truncates an HH:MM[:SS] clock to HH:MM.
func ClockHHMM(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

// EndClock adds hours to an HH:MM start and wraps past midnight.
func EndClock(start string, hours int) string {
	parts := strings.SplitN(start, ":", 3)
	if len(parts) < 2 || hours <= 0 {
		return "00:00"
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", (h+hours)%24, m)
}
