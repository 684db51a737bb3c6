package schedule

import (
	"strings"
	"time"

	"contentops/internal/services"
)

// DateLayout is the wire and storage format for civil dates.
const DateLayout = "2006-01-02"

// Day normalizes t to midnight UTC of the calendar date t carries in its own
// location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns date shifted by offset calendar days.
func AddDays(date time.Time, offset int) time.Time {
	return Day(date).AddDate(0, 0, offset)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, services.Validation("schedule", "parse date", "date %q must be YYYY-MM-DD", value)
	}
	return parsed, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return Day(date).Format(DateLayout)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
