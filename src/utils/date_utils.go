package utils

import "time"

// Date layouts observed in brokerage activity exports, tried in order.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// ParseDate parses a cell value as a calendar date, truncated to midnight
// UTC. Returns false when no known layout matches; callers treat that as an
// empty date source, not an error.
func ParseDate(dateStr string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
