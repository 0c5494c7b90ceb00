package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"roi-insight/internal/roi"
)

// GenerateWeeklyHoursChart creates a Mermaid xychart-beta with one line of total hours per period.
// Weeks without tickets of a period plot as 0 for that period.
func GenerateWeeklyHoursChart(series []roi.WeeklyBucket) string {
	if len(series) == 0 {
		return ""
	}

	var weeks []string
	pre := make(map[string]float64)
	post := make(map[string]float64)
	for _, b := range series {
		if len(weeks) == 0 || weeks[len(weeks)-1] != b.WeekStart {
			weeks = append(weeks, b.WeekStart)
		}
		if b.Period == roi.PeriodPost {
			post[b.WeekStart] = b.TotalHours
		} else {
			pre[b.WeekStart] = b.TotalHours
		}
	}

	// Subsample labels if the chart is too wide for Mermaid's layout engine
	subsampleRate := 1
	if len(weeks) > 60 {
		subsampleRate = int(math.Ceil(float64(len(weeks)) / 60.0))
	}

	var labels, preValues, postValues []string
	maxVal := 0.0
	for i, w := range weeks {
		if i%subsampleRate != 0 && i != len(weeks)-1 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", w))
		preValues = append(preValues, fmt.Sprintf("%.1f", pre[w]))
		postValues = append(postValues, fmt.Sprintf("%.1f", post[w]))
		maxVal = math.Max(maxVal, math.Max(pre[w], post[w]))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Weekly Total Hours (Pre vs Post Adoption)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Hours\" 0 --> %d\n", axisMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(preValues, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(postValues, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCostComparisonChart creates a Mermaid bar chart of the average cost per task in each period.
func GenerateCostComparisonChart(summary roi.SummaryMetrics) string {
	if summary.Pre.TotalTasks == 0 && summary.Post.TotalTasks == 0 {
		return ""
	}

	maxVal := math.Max(summary.Pre.AvgCostPerTask, summary.Post.AvgCostPerTask)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Average Cost per Task\"\n")
	sb.WriteString("    x-axis [\"Pre-Adoption\", \"Post-Adoption\"]\n")
	sb.WriteString(fmt.Sprintf("    y-axis \"Cost\" 0 --> %d\n", axisMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%.2f, %.2f]\n", summary.Pre.AvgCostPerTask, summary.Post.AvgCostPerTask))
	sb.WriteString("```")
	return sb.String()
}

// GenerateStatusPie creates a Mermaid pie chart of the status distribution of one period.
// Slices are ordered by descending count, then by label.
func GenerateStatusPie(counts map[string]int, period roi.Period) string {
	if len(counts) == 0 {
		return ""
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.SortFunc(labels, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("pie title Status Distribution (%s)\n", periodTitle(period)))
	for _, label := range labels {
		name := label
		if name == "" {
			name = "(none)"
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", strings.ReplaceAll(name, "\"", "'"), counts[label]))
	}
	sb.WriteString("```")
	return sb.String()
}

func axisMax(v float64) int {
	if v <= 0 {
		return 1
	}
	return int(math.Ceil(v * 1.2))
}

func periodTitle(p roi.Period) string {
	if p == roi.PeriodPost {
		return "Post-Adoption"
	}
	return "Pre-Adoption"
}
