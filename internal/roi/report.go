package roi

// Report bundles the four views of one session.
type Report struct {
	Summary           SummaryMetrics `json:"summary_metrics"`
	TimeSeries        []WeeklyBucket `json:"time_series_data"`
	StatusBreakdown   Breakdown      `json:"status_breakdown"`
	PriorityBreakdown Breakdown      `json:"priority_breakdown"`
}

// Report runs every reducer once.
func (s *AnalysisSession) Report() Report {
	return Report{
		Summary:           s.Summary(),
		TimeSeries:        s.TimeSeries(),
		StatusBreakdown:   s.StatusBreakdown(),
		PriorityBreakdown: s.PriorityBreakdown(),
	}
}
