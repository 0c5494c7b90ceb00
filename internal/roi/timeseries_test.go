package roi

import "testing"

func TestTimeSeries_Buckets(t *testing.T) {
	records := []Record{
		// Week of 2025-08-18 (Pre)
		rec("1", "Done", "High", "2025-08-18", "2025-08-18", "2025-08-20"),
		rec("2", "Done", "High", "2025-08-24", "2025-08-24", "2025-08-28"),
		// Week of 2025-08-25 (Post)
		rec("3", "Done", "High", "2025-08-25", "2025-08-25", "2025-08-26"),
		rec("4", "Done", "High", "2025-08-31", "2025-08-31", "2025-09-02"),
		// Week of 2025-09-08 (Post)
		rec("5", "Done", "High", "2025-09-10", "2025-09-10", "2025-09-10"),
	}
	s := mustSession(t, records, "2025-08-27", DefaultOptions())
	series := s.TimeSeries()

	want := []struct {
		week   string
		period Period
		count  int
		hours  float64
	}{
		{"2025-08-18", PeriodPre, 2, 24},
		{"2025-08-25", PeriodPre, 1, 8},
		{"2025-08-25", PeriodPost, 1, 16},
		{"2025-09-08", PeriodPost, 1, 0},
	}
	if len(series) != len(want) {
		t.Fatalf("expected %d buckets, got %d: %+v", len(want), len(series), series)
	}
	for i, w := range want {
		b := series[i]
		if b.WeekStart != w.week || b.Period != w.period || b.TaskCount != w.count || b.AvgHoursPerTask != w.hours {
			t.Errorf("bucket %d = %+v, want %+v", i, b, w)
		}
		if b.TotalHours != b.AvgHoursPerTask*float64(b.TaskCount) {
			t.Errorf("bucket %d TotalHours %v != avg × count", i, b.TotalHours)
		}
	}

	if series[0].AvgCost != 1200 || series[0].AvgDays != 3 {
		t.Errorf("unexpected first bucket averages: %+v", series[0])
	}
}

func TestTimeSeries_CountsMatchPeriodTotals(t *testing.T) {
	records := []Record{
		rec("1", "Done", "High", "2025-07-01", "2025-07-01", "2025-07-03"),
		rec("2", "Done", "High", "2025-07-15", "2025-07-15", "2025-07-16"),
		rec("3", "Done", "High", "2025-08-02", "2025-08-02", "2025-08-09"),
		rec("4", "Done", "High", "2025-09-01", "2025-09-01", "2025-09-02"),
		rec("5", "Done", "High", "2025-09-20", "2025-09-20", "2025-09-22"),
	}
	s := mustSession(t, records, "2025-08-25", DefaultOptions())
	sum := s.Summary()

	counts := map[Period]int{}
	for _, b := range s.TimeSeries() {
		counts[b.Period] += b.TaskCount
	}
	if counts[PeriodPre] != sum.Pre.TotalTasks || counts[PeriodPost] != sum.Post.TotalTasks {
		t.Errorf("bucket counts %v do not match period totals %d/%d", counts, sum.Pre.TotalTasks, sum.Post.TotalTasks)
	}
}

func TestTimeSeries_Empty(t *testing.T) {
	s := mustSession(t, nil, "2025-08-25", DefaultOptions())
	if series := s.TimeSeries(); len(series) != 0 {
		t.Errorf("expected no buckets, got %+v", series)
	}
}
