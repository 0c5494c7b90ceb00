package roi

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"ISO", "2025-08-25"},
		{"JiraExport", "25/Aug/25"},
		{"JiraExportWithTime", "25/Aug/25 02:30 PM"},
		{"LowercaseMonth", "25/aug/25"},
		{"Dashed", "25-Aug-25"},
		{"DashedWithTime", "25-Aug-25 9:15 AM"},
		{"ISOWithTime", "2025-08-25 13:45:00"},
		{"JiraTimestamp", "2025-08-25T14:30:00.000+0000"},
		{"RFC3339UTC", "2025-08-25T10:00:00Z"},
		{"RFC3339Millis", "2025-08-25T10:00:00.000Z"},
		{"RFC3339Offset", "2025-08-25T10:00:00+02:00"},
		{"ISOLocalTime", "2025-08-25T10:00:00"},
		{"SurroundingSpace", "  2025-08-25  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) returned error: %v", tt.input, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}

func TestParseDate_SameCalendarDay(t *testing.T) {
	iso, err := ParseDate("2025-08-25")
	if err != nil {
		t.Fatal(err)
	}
	jira, err := ParseDate("25/Aug/25")
	if err != nil {
		t.Fatal(err)
	}
	if !iso.Equal(jira) {
		t.Errorf("expected identical instants, got %v and %v", iso, jira)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "Aug 25, 2025", "2025-13-01", "32/Aug/25", "yesterday"} {
		_, err := ParseDate(input)
		if err == nil {
			t.Errorf("ParseDate(%q) expected error, got nil", input)
			continue
		}
		var dpe *DateParseError
		if !errors.As(err, &dpe) {
			t.Errorf("ParseDate(%q) error %v is not a *DateParseError", input, err)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-08-25", "2025-08-25"}, // Monday
		{"2025-08-31", "2025-08-25"}, // Sunday
		{"2025-08-01", "2025-07-28"}, // Friday
		{"2025-09-01", "2025-09-01"},
	}
	for _, tt := range tests {
		d, _ := time.Parse(CanonicalDateLayout, tt.day)
		if got := weekStart(d).Format(CanonicalDateLayout); got != tt.want {
			t.Errorf("weekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		end  time.Time
		want int
	}{
		{base, 0},
		{base.AddDate(0, 0, 3), 3},
		{base.AddDate(0, 0, -1), -1},
		{base.Add(36 * time.Hour), 1},
		{base.Add(-12 * time.Hour), -1},
	}
	for _, tt := range tests {
		if got := daysBetween(base, tt.end); got != tt.want {
			t.Errorf("daysBetween(%v, %v) = %d, want %d", base, tt.end, got, tt.want)
		}
	}
}

func TestParseDate_SingleDigitParts(t *testing.T) {
	want := time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"5/Aug/25", "05/Aug/25", "2025-8-5", "5-Aug-25 10:00 AM"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Errorf("ParseDate(%q) returned error: %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}
}
