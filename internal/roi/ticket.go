package roi

import "time"

// Period tags a ticket as created before or after the adoption date.
type Period string

const (
	PeriodPre  Period = "pre_adoption"
	PeriodPost Period = "post_adoption"
)

// Record is one raw row of a tracker export. Empty strings mean absent.
type Record struct {
	IssueType   string `json:"issue_type"`
	Key         string `json:"issue_key"`
	ID          string `json:"issue_id"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	Reporter    string `json:"reporter,omitempty"`
	ReporterID  string `json:"reporter_id,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Resolution  string `json:"resolution,omitempty"`
	Created     string `json:"created,omitempty"`
	Updated     string `json:"updated,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
}

// Ticket is a normalized Record with parsed dates and derived fields.
type Ticket struct {
	Record

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty"`

	DurationDays   *int     `json:"duration_days,omitempty"`
	HoursPerTicket *float64 `json:"hours_per_ticket,omitempty"`
	CostPerTicket  *float64 `json:"cost_per_ticket,omitempty"`
	Period         Period   `json:"period"`
}

// HasDuration reports whether both the start and due dates were present.
func (t Ticket) HasDuration() bool {
	return t.DurationDays != nil
}

// IsDone reports whether the ticket counts as completed.
func (t Ticket) IsDone() bool {
	return t.Status == DoneStatus
}

// clone returns a copy that shares no pointers with t.
func (t Ticket) clone() Ticket {
	out := t
	out.CreatedAt = clonePtr(t.CreatedAt)
	out.UpdatedAt = clonePtr(t.UpdatedAt)
	out.DueAt = clonePtr(t.DueAt)
	out.StartAt = clonePtr(t.StartAt)
	out.DurationDays = clonePtr(t.DurationDays)
	out.HoursPerTicket = clonePtr(t.HoursPerTicket)
	out.CostPerTicket = clonePtr(t.CostPerTicket)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// classify assigns the period for a creation date. A ticket without a
// creation date belongs to Pre.
func classify(created *time.Time, adoption time.Time) Period {
	if created == nil {
		return PeriodPre
	}
	if created.Before(adoption) {
		return PeriodPre
	}
	return PeriodPost
}
