package mcp

import (
	"context"

	"roi-insight/internal/roi"
	"roi-insight/internal/visuals"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// AnalysisInput selects a dataset and the adoption date to split it on.
type AnalysisInput struct {
	Dataset      string `json:"dataset" jsonschema:"name of a stored dataset, see list_datasets"`
	AdoptionDate string `json:"adoption_date" jsonschema:"date the AI tooling was adopted, e.g. 2025-08-25 or 25/Aug/25"`
	KeepUndated  bool   `json:"keep_undated,omitempty" jsonschema:"count tickets without start or due date in task totals"`
}

// ListDatasetsOutput names the datasets available for analysis.
type ListDatasetsOutput struct {
	Datasets []string `json:"datasets"`
}

// SummaryOutput is the headline comparison with an optional cost chart.
type SummaryOutput struct {
	Summary roi.SummaryMetrics `json:"summary_metrics"`
	Visual  string             `json:"visual_cost_comparison,omitempty"`
}

// TimeSeriesOutput is the weekly trend with an optional hours chart.
type TimeSeriesOutput struct {
	Buckets []roi.WeeklyBucket `json:"time_series_data"`
	Visual  string             `json:"visual_weekly_hours,omitempty"`
}

// BreakdownOutput holds the status and priority tallies and the duration spread per period.
type BreakdownOutput struct {
	Status       roi.Breakdown            `json:"status_breakdown"`
	Priority     roi.Breakdown            `json:"priority_breakdown"`
	Distribution roi.DurationDistribution `json:"duration_distribution"`
	VisualPre    string                   `json:"visual_status_pre,omitempty"`
	VisualPost   string                   `json:"visual_status_post,omitempty"`
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "list_datasets",
		Description: "List the stored Jira exports that can be analyzed. Call this first to find a dataset name.",
	}, s.handleListDatasets)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name: "analyze_roi_summary",
		Description: "Compare tickets created before and after the adoption date: completion rate, hours, days and cost per task, " +
			"improvement percentages and a linear annual savings estimate. Cost figures are derived from the configured assumptions, " +
			"which are echoed in the result. Do not present the annual estimate as a forecast with confidence bounds.",
	}, s.handleSummary)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "analyze_roi_timeseries",
		Description: "Weekly buckets (Monday start) of task count, average hours, days and cost, split by period.",
	}, s.handleTimeSeries)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "analyze_roi_breakdown",
		Description: "Ticket counts per status and per priority in each period, plus median, P85 and P95 ticket duration in days.",
	}, s.handleBreakdown)
}

func (s *Server) handleListDatasets(ctx context.Context, req *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, ListDatasetsOutput, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, ListDatasetsOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	out := ListDatasetsOutput{Datasets: names}
	res, err := textResult(out)
	return res, out, err
}

func (s *Server) handleSummary(ctx context.Context, req *mcpsdk.CallToolRequest, in AnalysisInput) (*mcpsdk.CallToolResult, SummaryOutput, error) {
	session, err := s.session(in.Dataset, in.AdoptionDate, in.KeepUndated)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	out := SummaryOutput{Summary: session.Summary()}
	if s.enableMermaid {
		out.Visual = visuals.GenerateCostComparisonChart(out.Summary)
	}
	log.Info().
		Str("dataset", in.Dataset).
		Str("adoptionDate", out.Summary.AdoptionDate).
		Float64("timeSavingsPercent", out.Summary.Improvements.TimeSavingsPercent).
		Msg("ROI summary computed")

	res, err := textResult(out)
	return res, out, err
}

func (s *Server) handleTimeSeries(ctx context.Context, req *mcpsdk.CallToolRequest, in AnalysisInput) (*mcpsdk.CallToolResult, TimeSeriesOutput, error) {
	session, err := s.session(in.Dataset, in.AdoptionDate, in.KeepUndated)
	if err != nil {
		return nil, TimeSeriesOutput{}, err
	}
	out := TimeSeriesOutput{Buckets: session.TimeSeries()}
	if s.enableMermaid {
		out.Visual = visuals.GenerateWeeklyHoursChart(out.Buckets)
	}
	res, err := textResult(out)
	return res, out, err
}

func (s *Server) handleBreakdown(ctx context.Context, req *mcpsdk.CallToolRequest, in AnalysisInput) (*mcpsdk.CallToolResult, BreakdownOutput, error) {
	session, err := s.session(in.Dataset, in.AdoptionDate, in.KeepUndated)
	if err != nil {
		return nil, BreakdownOutput{}, err
	}
	out := BreakdownOutput{
		Status:       session.StatusBreakdown(),
		Priority:     session.PriorityBreakdown(),
		Distribution: session.DurationDistribution(),
	}
	if s.enableMermaid {
		out.VisualPre = visuals.GenerateStatusPie(out.Status.Pre, roi.PeriodPre)
		out.VisualPost = visuals.GenerateStatusPie(out.Status.Post, roi.PeriodPost)
	}
	res, err := textResult(out)
	return res, out, err
}
