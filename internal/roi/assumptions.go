package roi

import (
	"errors"
	"fmt"
)

// DoneStatus is the status label counted as a completed task.
const DoneStatus = "Done"

// ErrInvalidAssumptions is returned when a cost assumption is not strictly positive.
var ErrInvalidAssumptions = errors.New("invalid cost assumptions")

// Assumptions are the economic constants every per-ticket cost is derived from.
type Assumptions struct {
	EngineerAnnualCost float64 `json:"engineer_annual_cost" yaml:"engineer_annual_cost"`
	HoursPerDay        float64 `json:"hours_per_day" yaml:"hours_per_day"`
	WorkingDaysPerYear float64 `json:"working_days_per_year" yaml:"working_days_per_year"`
}

// DefaultAssumptions returns the baseline: 100k per engineer-year, 8h days, 250 working days.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		EngineerAnnualCost: 100000,
		HoursPerDay:        8,
		WorkingDaysPerYear: 250,
	}
}

// HourlyRate is the fully loaded cost of one engineering hour.
func (a Assumptions) HourlyRate() float64 {
	return a.EngineerAnnualCost / (a.HoursPerDay * a.WorkingDaysPerYear)
}

// Validate reports whether every constant can be used as a divisor or multiplier.
func (a Assumptions) Validate() error {
	switch {
	case a.EngineerAnnualCost <= 0:
		return fmt.Errorf("%w: engineer annual cost must be > 0, got %v", ErrInvalidAssumptions, a.EngineerAnnualCost)
	case a.HoursPerDay <= 0:
		return fmt.Errorf("%w: hours per day must be > 0, got %v", ErrInvalidAssumptions, a.HoursPerDay)
	case a.WorkingDaysPerYear <= 0:
		return fmt.Errorf("%w: working days per year must be > 0, got %v", ErrInvalidAssumptions, a.WorkingDaysPerYear)
	}
	return nil
}

// Options configures session construction.
type Options struct {
	Assumptions Assumptions

	// KeepUndated retains tickets without a start or due date. They are
	// counted in task totals and tallies but skipped by every duration
	// and cost aggregate.
	KeepUndated bool
}

// DefaultOptions returns the default assumptions with undated tickets excluded.
func DefaultOptions() Options {
	return Options{Assumptions: DefaultAssumptions()}
}
