package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the layout used for server-generated timestamps that are
// compared against client-provided date strings. It sorts lexically in the
// same order as the instants it represents.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t in TimestampLayout, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// ParseISO8601 parses the date and date-time forms accepted for batch
// deletion bounds. A space may replace the "T" separator. Values without an
// offset are taken as UTC.
func ParseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}

// DateRange is a validated inclusive range of due dates. Start and End keep
// the raw client strings because the store compares them lexically.
type DateRange struct {
	Start string
	End   string
}

// NewDateRange validates both bounds and their order.
func NewDateRange(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, ErrMissingDateRange
	}
	startTime, err := ParseISO8601(start)
	if err != nil {
		return DateRange{}, err
	}
	endTime, err := ParseISO8601(end)
	if err != nil {
		return DateRange{}, err
	}
	if startTime.After(endTime) {
		return DateRange{}, ErrInvertedDateRange
	}
	return DateRange{Start: start, End: end}, nil
}
