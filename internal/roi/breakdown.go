package roi

// Breakdown counts tickets per category label for each period.
type Breakdown struct {
	Pre  map[string]int `json:"pre_adoption"`
	Post map[string]int `json:"post_adoption"`
}

// StatusBreakdown counts tickets per status in each period.
func (s *AnalysisSession) StatusBreakdown() Breakdown {
	return s.breakdown(func(t Ticket) string { return t.Status })
}

// PriorityBreakdown counts tickets per priority in each period.
func (s *AnalysisSession) PriorityBreakdown() Breakdown {
	return s.breakdown(func(t Ticket) string { return t.Priority })
}

// breakdown never returns nil maps; a period without tickets maps to {}.
func (s *AnalysisSession) breakdown(label func(Ticket) string) Breakdown {
	b := Breakdown{
		Pre:  make(map[string]int),
		Post: make(map[string]int),
	}
	for _, t := range s.tickets {
		if t.Period == PeriodPost {
			b.Post[label(t)]++
		} else {
			b.Pre[label(t)]++
		}
	}
	return b
}
