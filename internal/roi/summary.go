package roi

// PeriodMetrics aggregates one period of the working set.
type PeriodMetrics struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
	AvgHoursPerTask float64 `json:"avg_hours_per_task"`
	AvgDaysPerTask  float64 `json:"avg_days_per_task"`
	AvgCostPerTask  float64 `json:"avg_cost_per_task"`
	TotalCost       float64 `json:"total_cost"`
}

// Improvements compares Post against Pre. Positive savings mean Post is cheaper or faster.
type Improvements struct {
	TimeSavingsPercent        float64 `json:"time_savings_percent"`
	SpeedImprovementPercent   float64 `json:"speed_improvement_percent"`
	CostSavingsPerTask        float64 `json:"cost_savings_per_task"`
	CostSavingsPercent        float64 `json:"cost_savings_percent"`
	CompletionRateImprovement float64 `json:"completion_rate_improvement"`
	AnnualSavingsEstimate     float64 `json:"annual_savings_estimate"`
}

// AssumptionsEcho lets a consumer audit the basis of every cost figure.
type AssumptionsEcho struct {
	EngineerAnnualCost float64 `json:"engineer_annual_cost"`
	HoursPerDay        float64 `json:"hours_per_day"`
	WorkingDaysPerYear float64 `json:"working_days_per_year"`
	HourlyRate         float64 `json:"hourly_rate"`
}

// SummaryMetrics is the headline before/after comparison.
type SummaryMetrics struct {
	Assumptions  AssumptionsEcho `json:"assumptions"`
	Pre          PeriodMetrics   `json:"pre_adoption"`
	Post         PeriodMetrics   `json:"post_adoption"`
	Improvements Improvements    `json:"improvements"`
	AdoptionDate string          `json:"adoption_date"`
	Diagnostics  Diagnostics     `json:"diagnostics"`
}

// periodStats holds unrounded aggregates so comparisons are computed on raw values.
type periodStats struct {
	count      int
	done       int
	rate       float64
	avgHours   float64
	avgDays    float64
	avgCost    float64
	totalCost  float64
	maxCreated int64
	hasCreated bool
}

func computePeriodStats(tickets []Ticket) periodStats {
	var ps periodStats
	var hours, days, costs []float64

	for _, t := range tickets {
		ps.count++
		if t.IsDone() {
			ps.done++
		}
		if t.CreatedAt != nil {
			if u := t.CreatedAt.Unix(); !ps.hasCreated || u > ps.maxCreated {
				ps.maxCreated = u
				ps.hasCreated = true
			}
		}
		if !t.HasDuration() {
			continue
		}
		hours = append(hours, *t.HoursPerTicket)
		days = append(days, float64(*t.DurationDays))
		costs = append(costs, *t.CostPerTicket)
	}

	ps.rate = ratioPercent(float64(ps.done), float64(ps.count))
	ps.avgHours = mean(hours)
	ps.avgDays = mean(days)
	ps.avgCost = mean(costs)
	ps.totalCost = sum(costs)
	return ps
}

func (ps periodStats) metrics() PeriodMetrics {
	return PeriodMetrics{
		TotalTasks:      ps.count,
		CompletedTasks:  ps.done,
		CompletionRate:  round1(ps.rate),
		AvgHoursPerTask: round1(ps.avgHours),
		AvgDaysPerTask:  round1(ps.avgDays),
		AvgCostPerTask:  roundMoney(ps.avgCost),
		TotalCost:       roundMoney(ps.totalCost),
	}
}

// Summary compares the Pre and Post subsets and projects annual savings.
func (s *AnalysisSession) Summary() SummaryMetrics {
	pre := computePeriodStats(s.byPeriod(PeriodPre))
	post := computePeriodStats(s.byPeriod(PeriodPost))

	costSavingsPerTask := pre.avgCost - post.avgCost

	improvements := Improvements{
		TimeSavingsPercent:        round1(ratioPercent(pre.avgHours-post.avgHours, pre.avgHours)),
		SpeedImprovementPercent:   round1(ratioPercent(pre.avgDays-post.avgDays, pre.avgDays)),
		CostSavingsPerTask:        roundMoney(costSavingsPerTask),
		CostSavingsPercent:        round1(ratioPercent(costSavingsPerTask, pre.avgCost)),
		CompletionRateImprovement: round1(post.rate - pre.rate),
		AnnualSavingsEstimate:     roundMoney(s.annualSavings(post, costSavingsPerTask)),
	}

	return SummaryMetrics{
		Assumptions: AssumptionsEcho{
			EngineerAnnualCost: s.assumptions.EngineerAnnualCost,
			HoursPerDay:        s.assumptions.HoursPerDay,
			WorkingDaysPerYear: s.assumptions.WorkingDaysPerYear,
			HourlyRate:         roundMoney(s.assumptions.HourlyRate()),
		},
		Pre:          pre.metrics(),
		Post:         post.metrics(),
		Improvements: improvements,
		AdoptionDate: s.adoption.Format(CanonicalDateLayout),
		Diagnostics:  s.diagnostics,
	}
}

// annualSavings is a linear projection: it assumes the post-adoption task
// velocity holds for a full year. It carries no error bars.
func (s *AnalysisSession) annualSavings(post periodStats, costSavingsPerTask float64) float64 {
	if post.count == 0 || !post.hasCreated {
		return 0
	}
	daysPost := int((post.maxCreated - s.adoption.Unix()) / 86400)
	if daysPost <= 0 {
		return 0
	}
	dailyTaskRate := float64(post.count) / float64(daysPost)
	return dailyTaskRate * 365 * costSavingsPerTask
}
