package roi

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalDateLayout is the layout used when echoing dates back to callers.
const CanonicalDateLayout = "2006-01-02"

// timestampLayouts are tried against the whole string before the token pass.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// tokenLayouts are tried in order against the first whitespace-separated
// token, which drops any trailing time of day ("25/Aug/25 02:30 PM").
var tokenLayouts = []string{
	"2006-1-2",
	"2/Jan/06",
	"2-Jan-06",
}

// DateParseError reports a date string that matched none of the accepted layouts.
type DateParseError struct {
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unable to parse date: %q", e.Value)
	}
	return fmt.Sprintf("unable to parse %s date: %q", e.Field, e.Value)
}

// ParseDate converts a free-form date into midnight UTC of its calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &DateParseError{Value: s}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t), nil
		}
	}

	token := strings.Fields(s)[0]
	for _, layout := range tokenLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return truncateToDay(t), nil
		}
	}

	return time.Time{}, &DateParseError{Value: s}
}

// parseOptionalDate returns nil for an absent value. ok is false only when
// a non-empty value could not be parsed.
func parseOptionalDate(s string) (t *time.Time, ok bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the floored number of whole days from start to end.
func daysBetween(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// weekStart snaps t back to the Monday of its ISO week.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if offset < 0 {
		offset = 6 // Sunday
	}
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}
