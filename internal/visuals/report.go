package visuals

import (
	"fmt"
	"slices"
	"strings"

	"roi-insight/internal/roi"
)

// ReportOptions controls what the dashboard report contains.
type ReportOptions struct {
	Title         string
	Dataset       string
	IncludeCharts bool

	// Distribution adds a duration percentile table when set.
	Distribution *roi.DurationDistribution
}

// Markdown renders a dashboard report for one analysis run.
func Markdown(rep roi.Report, opts ReportOptions) string {
	title := opts.Title
	if title == "" {
		title = "Engineering ROI Report"
	}
	sum := rep.Summary

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if opts.Dataset != "" {
		fmt.Fprintf(&sb, "Dataset: **%s**  \n", opts.Dataset)
	}
	fmt.Fprintf(&sb, "Adoption date: **%s**  \n", sum.AdoptionDate)
	fmt.Fprintf(&sb, "Hourly rate: **%.2f** (%.0f per year, %.1f h/day, %.0f days/year)\n\n",
		sum.Assumptions.HourlyRate, sum.Assumptions.EngineerAnnualCost,
		sum.Assumptions.HoursPerDay, sum.Assumptions.WorkingDaysPerYear)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Pre-Adoption | Post-Adoption |\n")
	sb.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(&sb, "| Total tasks | %d | %d |\n", sum.Pre.TotalTasks, sum.Post.TotalTasks)
	fmt.Fprintf(&sb, "| Completed tasks | %d | %d |\n", sum.Pre.CompletedTasks, sum.Post.CompletedTasks)
	fmt.Fprintf(&sb, "| Completion rate (%%) | %.1f | %.1f |\n", sum.Pre.CompletionRate, sum.Post.CompletionRate)
	fmt.Fprintf(&sb, "| Avg hours per task | %.1f | %.1f |\n", sum.Pre.AvgHoursPerTask, sum.Post.AvgHoursPerTask)
	fmt.Fprintf(&sb, "| Avg days per task | %.1f | %.1f |\n", sum.Pre.AvgDaysPerTask, sum.Post.AvgDaysPerTask)
	fmt.Fprintf(&sb, "| Avg cost per task | %.2f | %.2f |\n", sum.Pre.AvgCostPerTask, sum.Post.AvgCostPerTask)
	fmt.Fprintf(&sb, "| Total cost | %.2f | %.2f |\n\n", sum.Pre.TotalCost, sum.Post.TotalCost)

	imp := sum.Improvements
	sb.WriteString("## Improvements\n\n")
	fmt.Fprintf(&sb, "- Time savings: **%.1f%%**\n", imp.TimeSavingsPercent)
	fmt.Fprintf(&sb, "- Speed improvement: **%.1f%%**\n", imp.SpeedImprovementPercent)
	fmt.Fprintf(&sb, "- Cost savings per task: **%.2f** (%.1f%%)\n", imp.CostSavingsPerTask, imp.CostSavingsPercent)
	fmt.Fprintf(&sb, "- Completion rate change: **%+.1f** points\n", imp.CompletionRateImprovement)
	fmt.Fprintf(&sb, "- Estimated annual savings: **%.2f**\n\n", imp.AnnualSavingsEstimate)

	d := sum.Diagnostics
	sb.WriteString("## Data Quality\n\n")
	fmt.Fprintf(&sb, "%d of %d rows retained. Excluded: %d with negative duration, %d undated. %d optional dates could not be parsed.\n\n",
		d.Retained, d.TotalRows, d.ExcludedNegative, d.ExcludedUndated, d.UnparsableOptionalDates)

	if dist := opts.Distribution; dist != nil {
		sb.WriteString("## Duration Distribution (days)\n\n")
		sb.WriteString("| Percentile | Pre-Adoption | Post-Adoption |\n")
		sb.WriteString("|---|---:|---:|\n")
		fmt.Fprintf(&sb, "| Tickets | %d | %d |\n", dist.Pre.Count, dist.Post.Count)
		fmt.Fprintf(&sb, "| Median | %.1f | %.1f |\n", dist.Pre.Median, dist.Post.Median)
		fmt.Fprintf(&sb, "| P85 | %.1f | %.1f |\n", dist.Pre.P85, dist.Post.P85)
		fmt.Fprintf(&sb, "| P95 | %.1f | %.1f |\n", dist.Pre.P95, dist.Post.P95)
		fmt.Fprintf(&sb, "| Max | %.1f | %.1f |\n\n", dist.Pre.Max, dist.Post.Max)
	}

	if opts.IncludeCharts {
		sb.WriteString("## Charts\n\n")
		for _, chart := range []string{
			GenerateWeeklyHoursChart(rep.TimeSeries),
			GenerateCostComparisonChart(sum),
			GenerateStatusPie(rep.StatusBreakdown.Pre, roi.PeriodPre),
			GenerateStatusPie(rep.StatusBreakdown.Post, roi.PeriodPost),
		} {
			if chart != "" {
				sb.WriteString(chart)
				sb.WriteString("\n\n")
			}
		}
	}

	writeBreakdownTable(&sb, "Status Breakdown", "Status", rep.StatusBreakdown)
	writeBreakdownTable(&sb, "Priority Breakdown", "Priority", rep.PriorityBreakdown)

	return sb.String()
}

func writeBreakdownTable(sb *strings.Builder, heading, label string, b roi.Breakdown) {
	keys := make([]string, 0, len(b.Pre)+len(b.Post))
	for k := range b.Pre {
		keys = append(keys, k)
	}
	for k := range b.Post {
		if _, ok := b.Pre[k]; !ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	slices.Sort(keys)

	fmt.Fprintf(sb, "## %s\n\n", heading)
	fmt.Fprintf(sb, "| %s | Pre-Adoption | Post-Adoption |\n", label)
	sb.WriteString("|---|---:|---:|\n")
	for _, k := range keys {
		name := k
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(sb, "| %s | %d | %d |\n", strings.ReplaceAll(name, "|", "\\|"), b.Pre[k], b.Post[k])
	}
	sb.WriteString("\n")
}
