package domain

import (
	"strconv"
	"strings"
)

// SpecialLeaveHours is the fixed number of hours a special-leave day counts
// for, bracketed by the employee's contracted weekly hours.
func SpecialLeaveHours(contractedWeeklyHours float64) int {
	if contractedWeeklyHours == 36 {
		return 6
	}
	return 8
}

// HoursStatus compares a week's assigned hours against its target.
type HoursStatus string

const (
	HoursMissing  HoursStatus = "missing"
	HoursExcess   HoursStatus = "excess"
	HoursComplete HoursStatus = "complete"
)

// CompareHours classifies total against target.
func CompareHours(total, target float64) HoursStatus {
	switch {
	case total < target:
		return HoursMissing
	case total > target:
		return HoursExcess
	default:
		return HoursComplete
	}
}

// BucketKind tags what an editor hour token selects.
type BucketKind int

const (
	BucketInvalid BucketKind = iota
	BucketRest
	BucketSpecial
	BucketTimed
)

// HourBucket is a parsed hour token from the shift catalog.
type HourBucket struct {
	Token string
	Kind  BucketKind
	Hours int
	Leave SpecialLeave
}

// ParseHourBucket classifies an hour token. Rest tokens ("X", "DESCANSO - X")
// and special-leave tokens skip shift selection; positive integers select a
// timed bucket.
func ParseHourBucket(token string) HourBucket {
	token = strings.TrimSpace(token)
	b := HourBucket{Token: token}
	switch {
	case token == "":
		return b
	case token == RestToken || strings.HasPrefix(token, "DESCANSO"):
		b.Kind = BucketRest
	default:
		if l, ok := ParseSpecialLeave(token); ok {
			b.Kind = BucketSpecial
			b.Leave = l
			return b
		}
		if n, err := strconv.Atoi(token); err == nil && n > 0 {
			b.Kind = BucketTimed
			b.Hours = n
		}
	}
	return b
}

// SkipsShiftSelection reports whether choosing this bucket is enough to save.
func (b HourBucket) SkipsShiftSelection() bool {
	return b.Kind == BucketRest || b.Kind == BucketSpecial
}
