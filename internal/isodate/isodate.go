// Package isodate parses the ISO-8601 date and date-time forms accepted by the date tools.
package isodate

import (
	"time"

	"github.com/skosovsky/toolbox"
)

var layouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	time.RFC3339Nano,
}

// Parse reads s as a date or date-time. Values without an offset are read as UTC.
// Failures are ClientErrors of kind ErrInvalidDate.
func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, toolbox.Fail(toolbox.ErrInvalidDate, "invalid date %q, use YYYY-MM-DD", s)
}
