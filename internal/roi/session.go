package roi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEmptyAdoptionDate is returned when no adoption date is supplied.
var ErrEmptyAdoptionDate = errors.New("adoption date is required")

// Diagnostics summarizes what normalization did to the input rows.
type Diagnostics struct {
	TotalRows               int `json:"total_rows"`
	Retained                int `json:"retained"`
	ExcludedNegative        int `json:"excluded_negative_duration"`
	ExcludedUndated         int `json:"excluded_undated"`
	UnparsableOptionalDates int `json:"unparsable_optional_dates"`
}

// AnalysisSession is the immutable pair of a normalized ticket set and an
// adoption date. The reducers read it; nothing writes to it after
// construction. Analysing another adoption date means building a new
// session from the same records.
type AnalysisSession struct {
	tickets     []Ticket
	adoption    time.Time
	assumptions Assumptions
	diagnostics Diagnostics
}

// NewAnalysisSession normalizes records and classifies them around adoptionDate.
// It fails on invalid assumptions, an unparseable adoption date, or a
// non-empty creation date that cannot be parsed. There is no partial result.
func NewAnalysisSession(records []Record, adoptionDate string, opts Options) (*AnalysisSession, error) {
	if err := opts.Assumptions.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(adoptionDate) == "" {
		return nil, ErrEmptyAdoptionDate
	}
	adoption, err := ParseDate(adoptionDate)
	if err != nil {
		return nil, &DateParseError{Field: "adoption", Value: adoptionDate}
	}

	s := &AnalysisSession{
		adoption:    adoption,
		assumptions: opts.Assumptions,
		tickets:     make([]Ticket, 0, len(records)),
	}
	s.diagnostics.TotalRows = len(records)

	for _, rec := range records {
		t, badOptional, err := s.normalize(rec)
		if err != nil {
			return nil, err
		}
		s.diagnostics.UnparsableOptionalDates += badOptional

		switch {
		case t.DurationDays == nil && !opts.KeepUndated:
			s.diagnostics.ExcludedUndated++
			continue
		case t.DurationDays != nil && *t.DurationDays < 0:
			s.diagnostics.ExcludedNegative++
			continue
		}
		s.tickets = append(s.tickets, t)
	}
	s.diagnostics.Retained = len(s.tickets)

	log.Debug().
		Str("adoptionDate", adoption.Format(CanonicalDateLayout)).
		Int("rows", s.diagnostics.TotalRows).
		Int("retained", s.diagnostics.Retained).
		Int("negative", s.diagnostics.ExcludedNegative).
		Int("undated", s.diagnostics.ExcludedUndated).
		Msg("Analysis session built")

	return s, nil
}

func (s *AnalysisSession) normalize(rec Record) (Ticket, int, error) {
	t := Ticket{Record: rec}
	badOptional := 0

	if strings.TrimSpace(rec.Created) != "" {
		created, err := ParseDate(rec.Created)
		if err != nil {
			return Ticket{}, 0, fmt.Errorf("ticket %s: %w", rec.Key, &DateParseError{Field: "created", Value: rec.Created})
		}
		t.CreatedAt = &created
	}

	optional := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"updated", rec.Updated, &t.UpdatedAt},
		{"due", rec.DueDate, &t.DueAt},
		{"start", rec.StartDate, &t.StartAt},
	}
	for _, o := range optional {
		parsed, ok := parseOptionalDate(o.value)
		if !ok {
			badOptional++
			log.Debug().Str("key", rec.Key).Str("field", o.field).Str("value", o.value).Msg("Ignoring unparsable optional date")
		}
		*o.dst = parsed
	}

	if t.StartAt != nil && t.DueAt != nil {
		days := daysBetween(*t.StartAt, *t.DueAt)
		hours := float64(days) * s.assumptions.HoursPerDay
		cost := hours * s.assumptions.HourlyRate()
		t.DurationDays = &days
		t.HoursPerTicket = &hours
		t.CostPerTicket = &cost
	}

	t.Period = classify(t.CreatedAt, s.adoption)
	return t, badOptional, nil
}

// AdoptionDate returns the cut point separating Pre and Post.
func (s *AnalysisSession) AdoptionDate() time.Time {
	return s.adoption
}

// Diagnostics returns the normalization counters.
func (s *AnalysisSession) Diagnostics() Diagnostics {
	return s.diagnostics
}

// Tickets returns a deep copy of the working set.
func (s *AnalysisSession) Tickets() []Ticket {
	out := make([]Ticket, len(s.tickets))
	for i, t := range s.tickets {
		out[i] = t.clone()
	}
	return out
}

// Len is the number of retained tickets.
func (s *AnalysisSession) Len() int {
	return len(s.tickets)
}

func (s *AnalysisSession) byPeriod(p Period) []Ticket {
	var out []Ticket
	for _, t := range s.tickets {
		if t.Period == p {
			out = append(out, t)
		}
	}
	return out
}
