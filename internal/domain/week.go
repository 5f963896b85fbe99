package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used on the wire and in storage keys.
const DateLayout = "2006-01-02"

// Week is one scheduling week as returned by the backend partitioner.
// Boundaries are opaque server data; the client never recomputes them.
type Week struct {
	Start time.Time
	End   time.Time
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Days returns every calendar day from Start to End inclusive.
func (w Week) Days() []time.Time {
	start, end := Day(w.Start), Day(w.End)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether d falls within the week, inclusive.
func (w Week) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(w.Start)) && !d.After(Day(w.End))
}

// Label renders the week as "DD - DD", the way the week selector shows it.
func (w Week) Label() string {
	return fmt.Sprintf("%02d - %02d", w.Start.Day(), w.End.Day())
}

// WeekSpan returns the first start and last end of an ordered week list.
func WeekSpan(weeks []Week) (time.Time, time.Time, bool) {
	if len(weeks) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return Day(weeks[0].Start), Day(weeks[len(weeks)-1].End), true
}

// ValidateWeeks checks that weeks are non-empty ranges, ordered ascending,
// and contiguous without overlap.
func ValidateWeeks(weeks []Week) error {
	for i, w := range weeks {
		if Day(w.End).Before(Day(w.Start)) {
			return fmt.Errorf("week %d ends before it starts", i+1)
		}
		if i == 0 {
			continue
		}
		want := Day(weeks[i-1].End).AddDate(0, 0, 1)
		if !Day(w.Start).Equal(want) {
			return fmt.Errorf("week %d starts %s, expected %s", i+1, FormatDate(w.Start), FormatDate(want))
		}
	}
	return nil
}

// WeekIndexOf returns the 0-based index of the week containing d, or -1.
func WeekIndexOf(weeks []Week, d time.Time) int {
	for i, w := range weeks {
		if w.Contains(d) {
			return i
		}
	}
	return -1
}
