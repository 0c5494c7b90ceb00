package roi

import "roi-insight/internal/stats"

// DurationDistribution is the spread of ticket durations in days for each period.
type DurationDistribution struct {
	Pre  stats.Percentiles `json:"pre_adoption"`
	Post stats.Percentiles `json:"post_adoption"`
}

// DurationDistribution summarizes durations per period. Tickets without a
// duration are skipped, so Count may be below the period's task count.
func (s *AnalysisSession) DurationDistribution() DurationDistribution {
	var pre, post []int
	for _, t := range s.tickets {
		if !t.HasDuration() {
			continue
		}
		if t.Period == PeriodPost {
			post = append(post, *t.DurationDays)
		} else {
			pre = append(pre, *t.DurationDays)
		}
	}
	return DurationDistribution{
		Pre:  stats.CalculatePercentiles(pre),
		Post: stats.CalculatePercentiles(post),
	}
}
