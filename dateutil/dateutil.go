// Package dateutil provides calendar day helpers.
package dateutil

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// Layout is the day layout used in all outputs.
const Layout = "2006-01-02"

// Today returns the beginning of the UTC day containing t.
func Today(t time.Time) time.Time {
	return now.With(t.UTC()).BeginningOfDay()
}

// Parse reads a date or timestamp in any layout dateparse knows, failing on
// ambiguous values such as 01/02/2024.
func Parse(value string) (time.Time, error) {
	return dateparse.ParseStrict(value)
}

// FromParts turns a year, month, day triple into a UTC day. Month and day
// default to 1 when absent or zero. Returns false for a missing year or a
// triple that does not name a real calendar day.
func FromParts(parts []int64) (time.Time, bool) {
	if len(parts) == 0 || parts[0] <= 0 {
		return time.Time{}, false
	}
	var (
		y = int(parts[0])
		m = 1
		d = 1
	)
	if len(parts) > 1 && parts[1] > 0 {
		m = int(parts[1])
	}
	if len(parts) > 2 && parts[2] > 0 {
		d = int(parts[2])
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
