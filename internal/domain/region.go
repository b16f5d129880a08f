package domain

import "time"

// RegionID joins a trail to its weather location. It is a free-form key:
// a region with no weather records yields zero statistics, not an error.
type RegionID string

func (r RegionID) String() string { return string(r) }

// DateLayout is the wire format for calendar dates in CSV/JSON payloads.
const DateLayout = "2006-01-02"

// Date truncates t to a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date as ISO YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current UTC calendar date.
func Today() time.Time {
	now := time.Now().UTC()
	return Date(now.Year(), now.Month(), now.Day())
}

// NextDay reports whether b is exactly one calendar day after a.
func NextDay(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b)
}
