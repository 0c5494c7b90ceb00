package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"roi-insight/internal/config"
	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestClient(t *testing.T, mermaid bool) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	store, err := dataset.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	records := []roi.Record{
		{Key: "A-1", Status: "Done", Priority: "High", Created: "2025-08-18", StartDate: "2025-08-18", DueDate: "2025-08-20"},
		{Key: "A-2", Status: "In Progress", Priority: "Low", Created: "2025-08-19", StartDate: "2025-08-19", DueDate: "2025-08-21"},
		{Key: "A-3", Status: "Done", Priority: "High", Created: "2025-08-26", StartDate: "2025-08-26", DueDate: "2025-08-27"},
		{Key: "A-4", Status: "To Do", Priority: "Low", Created: "2025-08-27"},
	}
	if err := store.Save("fintechco", records); err != nil {
		t.Fatal(err)
	}

	cfg := &config.AppConfig{Analysis: roi.DefaultOptions(), EnableMermaidCharts: mermaid}
	server := NewServer(cfg, store, "test")

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any, out any) *mcpsdk.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s) error = %v", name, err)
	}
	if res.IsError {
		t.Fatalf("CallTool(%s) returned tool error: %+v", name, res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatalf("CallTool(%s) returned no content", name)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s) content is %T, want text", name, res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		t.Fatalf("CallTool(%s) returned invalid JSON: %v", name, err)
	}
	return res
}

func TestTools_ListDatasets(t *testing.T) {
	session := newTestClient(t, false)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_datasets", "analyze_roi_summary", "analyze_roi_timeseries", "analyze_roi_breakdown"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	var out ListDatasetsOutput
	callTool(t, session, "list_datasets", map[string]any{}, &out)
	if len(out.Datasets) != 1 || out.Datasets[0] != "fintechco" {
		t.Errorf("Datasets = %v", out.Datasets)
	}
}

func TestTools_Summary(t *testing.T) {
	session := newTestClient(t, true)

	var out SummaryOutput
	callTool(t, session, "analyze_roi_summary", map[string]any{
		"dataset":       "fintechco",
		"adoption_date": "25/Aug/25",
	}, &out)

	sum := out.Summary
	if sum.AdoptionDate != "2025-08-25" {
		t.Errorf("AdoptionDate = %s", sum.AdoptionDate)
	}
	if sum.Pre.TotalTasks != 2 || sum.Post.TotalTasks != 1 {
		t.Errorf("task counts = %d/%d, want 2/1", sum.Pre.TotalTasks, sum.Post.TotalTasks)
	}
	if sum.Improvements.TimeSavingsPercent != 50 {
		t.Errorf("TimeSavingsPercent = %v, want 50", sum.Improvements.TimeSavingsPercent)
	}
	if sum.Diagnostics.ExcludedUndated != 1 {
		t.Errorf("ExcludedUndated = %d, want 1", sum.Diagnostics.ExcludedUndated)
	}
	if !strings.Contains(out.Visual, "Average Cost per Task") {
		t.Errorf("expected cost chart, got %q", out.Visual)
	}

	callTool(t, session, "analyze_roi_summary", map[string]any{
		"dataset":       "fintechco",
		"adoption_date": "2025-08-25",
		"keep_undated":  true,
	}, &out)
	if out.Summary.Post.TotalTasks != 2 {
		t.Errorf("keep_undated: Post.TotalTasks = %d, want 2", out.Summary.Post.TotalTasks)
	}
}

func TestTools_TimeSeriesAndBreakdown(t *testing.T) {
	session := newTestClient(t, false)
	args := map[string]any{"dataset": "fintechco", "adoption_date": "2025-08-25"}

	var ts TimeSeriesOutput
	callTool(t, session, "analyze_roi_timeseries", args, &ts)
	if len(ts.Buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(ts.Buckets))
	}
	if ts.Buckets[0].WeekStart != "2025-08-18" || ts.Buckets[0].Period != roi.PeriodPre || ts.Buckets[0].TaskCount != 2 {
		t.Errorf("unexpected first bucket %+v", ts.Buckets[0])
	}
	if ts.Visual != "" {
		t.Error("charts disabled but visual returned")
	}

	var bd BreakdownOutput
	callTool(t, session, "analyze_roi_breakdown", args, &bd)
	if bd.Status.Pre["Done"] != 1 || bd.Status.Pre["In Progress"] != 1 || bd.Status.Post["Done"] != 1 {
		t.Errorf("unexpected status breakdown %+v", bd.Status)
	}
	if bd.Priority.Pre["High"] != 1 || bd.Priority.Post["High"] != 1 {
		t.Errorf("unexpected priority breakdown %+v", bd.Priority)
	}
	if bd.Distribution.Pre.Count != 2 || bd.Distribution.Pre.Median != 2 || bd.Distribution.Post.Max != 1 {
		t.Errorf("unexpected duration distribution %+v", bd.Distribution)
	}
}

func TestTools_Errors(t *testing.T) {
	session := newTestClient(t, false)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"unknown dataset", map[string]any{"dataset": "nope", "adoption_date": "2025-08-25"}},
		{"bad adoption date", map[string]any{"dataset": "fintechco", "adoption_date": "someday"}},
		{"empty adoption date", map[string]any{"dataset": "fintechco", "adoption_date": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
				Name:      "analyze_roi_summary",
				Arguments: tt.args,
			})
			if err == nil && !res.IsError {
				t.Errorf("expected an error result, got %+v", res.Content)
			}
		})
	}
}
