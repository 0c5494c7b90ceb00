package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := dataset.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	records := []roi.Record{
		{Key: "A-1", Status: "Done", Priority: "High", Created: "2025-08-18", StartDate: "2025-08-18", DueDate: "2025-08-20"},
		{Key: "A-2", Status: "In Progress", Priority: "Low", Created: "2025-08-19", StartDate: "2025-08-19", DueDate: "2025-08-21"},
		{Key: "A-3", Status: "Done", Priority: "High", Created: "2025-08-26", StartDate: "2025-08-26", DueDate: "2025-08-27"},
	}
	if err := store.Save("fintechco", records); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(NewHandler(store, roi.DefaultOptions()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
}

func TestHealthAndDatasets(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	var health map[string]string
	decode(t, resp, &health)
	if resp.StatusCode != http.StatusOK || health["status"] != "healthy" {
		t.Errorf("health = %d %v", resp.StatusCode, health)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	resp, err = http.Get(srv.URL + "/api/datasets")
	if err != nil {
		t.Fatal(err)
	}
	var list struct {
		Success  bool     `json:"success"`
		Datasets []string `json:"datasets"`
	}
	decode(t, resp, &list)
	if !list.Success || len(list.Datasets) != 1 || list.Datasets[0] != "fintechco" {
		t.Errorf("datasets = %+v", list)
	}
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	body := `{"dataset": "fintechco", "adoption_date": "2025-08-25"}`
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got AnalysisResponse
	decode(t, resp, &got)
	if !got.Success || got.RunID == "" || got.TotalIssues != 3 {
		t.Errorf("unexpected envelope %+v", got)
	}
	if got.Summary.Improvements.TimeSavingsPercent != 50 {
		t.Errorf("TimeSavingsPercent = %v", got.Summary.Improvements.TimeSavingsPercent)
	}
	if len(got.TimeSeries) != 2 {
		t.Errorf("got %d weekly buckets, want 2", len(got.TimeSeries))
	}
	if got.StatusBreakdown.Post["Done"] != 1 || got.PriorityBreakdown.Pre["Low"] != 1 {
		t.Errorf("unexpected breakdowns %+v %+v", got.StatusBreakdown, got.PriorityBreakdown)
	}
}

func TestAnalyze_ResponseKeys(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/dashboard-data?dataset=fintechco&adoption_date=25/Aug/25")
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	for _, key := range []string{"success", "total_issues", "summary_metrics", "time_series_data", "status_breakdown", "priority_breakdown"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}

func TestAnalyze_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing dataset", http.MethodPost, "/api/analyze", `{"adoption_date": "2025-08-25"}`, http.StatusBadRequest},
		{"missing date", http.MethodPost, "/api/analyze", `{"dataset": "fintechco"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/analyze", `{"dataset": "fintechco", "adoption_date": "soon"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/analyze", `{"dataset":`, http.StatusBadRequest},
		{"unknown dataset", http.MethodPost, "/api/analyze", `{"dataset": "pharmaco", "adoption_date": "2025-08-25"}`, http.StatusNotFound},
		{"invalid name", http.MethodGet, "/api/dashboard-data?dataset=..%2Fetc&adoption_date=2025-08-25", "", http.StatusBadRequest},
		{"dashboard missing date", http.MethodGet, "/api/dashboard-data?dataset=fintechco", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var e ErrorResponse
			decode(t, resp, &e)
			if e.Success || e.Error == "" {
				t.Errorf("unexpected error body %+v", e)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{dataset.ErrNotFound, http.StatusNotFound},
		{&roi.DateParseError{Field: "adoption", Value: "x"}, http.StatusBadRequest},
		{roi.ErrEmptyAdoptionDate, http.StatusBadRequest},
		{roi.ErrInvalidAssumptions, http.StatusUnprocessableEntity},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAnalyze_MissingFieldMessage(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		body string
		want string
	}{
		{`{"adoption_date": "2025-08-25"}`, "missing required field: dataset"},
		{`{"dataset": "fintechco", "adoption_date": "  "}`, "missing required field: adoption_date"},
	}
	for _, tt := range tests {
		resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(tt.body))
		if err != nil {
			t.Fatal(err)
		}
		var e ErrorResponse
		decode(t, resp, &e)
		if e.Error != tt.want {
			t.Errorf("error = %q, want %q", e.Error, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/dashboard-data?dataset=fintechco&adoption_date=2025-08-25")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`roi_insight_analyses_total{outcome="ok"} 1`,
		`roi_insight_http_requests_total{code="200",route="/api/dashboard-data"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_OutcomeFollowsStatus(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{
		"dataset=fintechco&adoption_date=2025-08-25",
		"dataset=fintechco&adoption_date=soon",
		"dataset=pharmaco&adoption_date=2025-08-25",
		"dataset=fintechco",
	} {
		resp, err := http.Get(srv.URL + "/api/dashboard-data?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := string(body)
	if !strings.Contains(out, `roi_insight_analyses_total{outcome="ok"} 1`) {
		t.Error("missing ok outcome")
	}
	if !strings.Contains(out, `roi_insight_analyses_total{outcome="invalid"} 3`) {
		t.Errorf("bad dates, unknown datasets and missing fields should count as invalid:\n%s", out)
	}
	if strings.Contains(out, `outcome="error"`) {
		t.Error("no server error occurred, but an error outcome was recorded")
	}
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "ok"},
		{http.StatusBadRequest, "invalid"},
		{http.StatusNotFound, "invalid"},
		{http.StatusUnprocessableEntity, "invalid"},
		{http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		if got := outcomeFor(tt.status); got != tt.want {
			t.Errorf("outcomeFor(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
