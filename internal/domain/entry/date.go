package entry

import (
	"strings"
	"time"
)

// dateLayouts is deliberately loose: anything a person is likely to type into
// a date box is accepted, not only ISO-8601.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	"2006-01",
	"2006",
}

// ParseDate parses s with the first layout that accepts it.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDate reports whether s parses as a calendar date.
func IsDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}
