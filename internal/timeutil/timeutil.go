package timeutil

import "time"

const (
	// DateLayout defines the canonical date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// ClockLayout defines the canonical time-of-day format (HH:MM, 24h).
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock parses an HH:MM time-of-day string.
func ParseClock(value string) (time.Time, error) {
	return time.Parse(ClockLayout, value)
}

// ValidDate reports whether value is a well-formed YYYY-MM-DD date.
func ValidDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

// ValidClock reports whether value is a well-formed HH:MM time of day.
func ValidClock(value string) bool {
	if len(value) != len(ClockLayout) {
		return false
	}
	_, err := ParseClock(value)
	return err == nil
}

// CalendarDay truncates t to midnight UTC of its calendar date in t's own location,
// so dates from different zones compare by the wall-clock day they fall on.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
