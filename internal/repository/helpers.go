package repository

import "time"

// parseTimeOrZero parses an RFC3339 column value, returning the zero time
// when it does not parse.
func parseTimeOrZero(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// timeOrNow formats t as RFC3339, substituting the current time for zero.
func timeOrNow(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
