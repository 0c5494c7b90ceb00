package dataset

import (
	"fmt"
	"slices"

	"roi-insight/internal/roi"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTickets  = "Tickets"
	sheetSummary  = "Summary"
	sheetWeekly   = "Weekly"
	sheetStatus   = "Status"
	sheetPriority = "Priority"
)

var ticketColumns = append(slices.Clone(Columns), "Duration (days)", "Hours per ticket", "Cost per ticket", "Period")

// ExportXLSX writes the processed tickets and the four views of a session to a workbook.
func ExportXLSX(path string, s *roi.AnalysisSession) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTickets); err != nil {
		return err
	}
	for _, name := range []string{sheetSummary, sheetWeekly, sheetStatus, sheetPriority} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeTickets(f, s.Tickets()); err != nil {
		return err
	}
	if err := writeSummary(f, s.Summary()); err != nil {
		return err
	}
	if err := writeWeekly(f, s.TimeSeries()); err != nil {
		return err
	}
	if err := writeBreakdown(f, sheetStatus, "Status", s.StatusBreakdown()); err != nil {
		return err
	}
	if err := writeBreakdown(f, sheetPriority, "Priority", s.PriorityBreakdown()); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func header(cols []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

func writeTickets(f *excelize.File, tickets []roi.Ticket) error {
	if err := setRow(f, sheetTickets, 1, header(ticketColumns)); err != nil {
		return err
	}
	for i := range tickets {
		t := tickets[i]
		row := make([]interface{}, 0, len(ticketColumns))
		for _, v := range fields(&t.Record) {
			row = append(row, *v)
		}
		if t.HasDuration() {
			row = append(row, *t.DurationDays, *t.HoursPerTicket, *t.CostPerTicket)
		} else {
			row = append(row, nil, nil, nil)
		}
		row = append(row, string(t.Period))
		if err := setRow(f, sheetTickets, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, sum roi.SummaryMetrics) error {
	rows := [][]interface{}{
		{"Metric", "Pre-adoption", "Post-adoption"},
		{"Total tasks", sum.Pre.TotalTasks, sum.Post.TotalTasks},
		{"Completed tasks", sum.Pre.CompletedTasks, sum.Post.CompletedTasks},
		{"Completion rate (%)", sum.Pre.CompletionRate, sum.Post.CompletionRate},
		{"Avg hours per task", sum.Pre.AvgHoursPerTask, sum.Post.AvgHoursPerTask},
		{"Avg days per task", sum.Pre.AvgDaysPerTask, sum.Post.AvgDaysPerTask},
		{"Avg cost per task", sum.Pre.AvgCostPerTask, sum.Post.AvgCostPerTask},
		{"Total cost", sum.Pre.TotalCost, sum.Post.TotalCost},
		{},
		{"Improvement", "Value"},
		{"Time savings (%)", sum.Improvements.TimeSavingsPercent},
		{"Speed improvement (%)", sum.Improvements.SpeedImprovementPercent},
		{"Cost savings per task", sum.Improvements.CostSavingsPerTask},
		{"Cost savings (%)", sum.Improvements.CostSavingsPercent},
		{"Completion rate improvement", sum.Improvements.CompletionRateImprovement},
		{"Annual savings estimate", sum.Improvements.AnnualSavingsEstimate},
		{},
		{"Assumption", "Value"},
		{"Adoption date", sum.AdoptionDate},
		{"Engineer annual cost", sum.Assumptions.EngineerAnnualCost},
		{"Hours per day", sum.Assumptions.HoursPerDay},
		{"Working days per year", sum.Assumptions.WorkingDaysPerYear},
		{"Hourly rate", sum.Assumptions.HourlyRate},
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := setRow(f, sheetSummary, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func writeWeekly(f *excelize.File, series []roi.WeeklyBucket) error {
	cols := []string{"Week start", "Period", "Task count", "Avg hours per task", "Avg days", "Avg cost", "Total hours"}
	if err := setRow(f, sheetWeekly, 1, header(cols)); err != nil {
		return err
	}
	for i, b := range series {
		row := []interface{}{b.WeekStart, string(b.Period), b.TaskCount, b.AvgHoursPerTask, b.AvgDays, b.AvgCost, b.TotalHours}
		if err := setRow(f, sheetWeekly, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeBreakdown(f *excelize.File, sheet, label string, b roi.Breakdown) error {
	if err := setRow(f, sheet, 1, []interface{}{label, "Pre-adoption", "Post-adoption"}); err != nil {
		return err
	}

	seen := make(map[string]bool)
	var labels []string
	for _, m := range []map[string]int{b.Pre, b.Post} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				labels = append(labels, k)
			}
		}
	}
	slices.Sort(labels)

	for i, l := range labels {
		if err := setRow(f, sheet, i+2, []interface{}{l, b.Pre[l], b.Post[l]}); err != nil {
			return err
		}
	}
	return nil
}
