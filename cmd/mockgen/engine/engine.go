package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"roi-insight/internal/jira"
	"roi-insight/internal/roi"
)

type GeneratorConfig struct {
	ProjectKey   string
	Distribution string // "uniform" or "weibull"
	Count        int

	// Tickets are spread evenly over SpanDays centred on AdoptionDate.
	AdoptionDate time.Time
	SpanDays     int

	// Improvement shortens post-adoption durations: 0.4 means 40% faster.
	Improvement float64

	// Share of tickets exported without a start or due date.
	UndatedRatio float64

	Seed int64
	Now  time.Time
}

var (
	issueTypes = []string{"Story", "Story", "Task", "Bug"}
	priorities = []string{"Highest", "High", "Medium", "Medium", "Low"}
	assignees  = []string{"Avery Chen", "Jordan Patel", "Sam Okafor", "Riley Novak", ""}
)

func Generate(cfg GeneratorConfig) []roi.Record {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.ProjectKey == "" {
		cfg.ProjectKey = "DEMO"
	}
	if cfg.SpanDays <= 0 {
		cfg.SpanDays = 180
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	first := cfg.AdoptionDate.AddDate(0, 0, -cfg.SpanDays/2)
	step := time.Duration(0)
	if cfg.Count > 1 {
		step = time.Duration(cfg.SpanDays) * 24 * time.Hour / time.Duration(cfg.Count-1)
	}

	records := make([]roi.Record, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		// Working hours only, so the export timestamps look organic.
		created := first.Add(time.Duration(i) * step).Add(time.Duration(9+rng.Intn(8)) * time.Hour)
		if created.After(cfg.Now) {
			created = cfg.Now
		}

		var days float64
		if cfg.Distribution == "weibull" {
			days = weibullSample(rng, 1.8, 6.0)
		} else {
			days = 2.0 + rng.Float64()*8.0
		}
		if !created.Before(cfg.AdoptionDate) {
			days *= 1 - cfg.Improvement
		}
		duration := int(math.Max(1, math.Round(days)))

		start := created.AddDate(0, 0, rng.Intn(3))
		due := start.AddDate(0, 0, duration)

		status := "Done"
		switch {
		case start.After(cfg.Now):
			status = "To Do"
		case due.After(cfg.Now):
			status = "In Progress"
		case rng.Float64() < 0.08:
			status = "Won't Do"
		}

		resolution := ""
		updated := due
		if status == "Done" {
			resolution = "Done"
		}
		if updated.After(cfg.Now) {
			updated = cfg.Now
		}

		assignee := assignees[rng.Intn(len(assignees))]
		key := fmt.Sprintf("%s-%d", cfg.ProjectKey, i+1)
		rec := roi.Record{
			IssueType:  issueTypes[rng.Intn(len(issueTypes))],
			Key:        key,
			ID:         fmt.Sprintf("%d", 10000+i),
			Summary:    fmt.Sprintf("Synthetic work item %d", i+1),
			Assignee:   assignee,
			Reporter:   "Demo Generator",
			Priority:   priorities[rng.Intn(len(priorities))],
			Status:     status,
			Resolution: resolution,
			Created:    created.Format(jira.ExportTimeLayout),
			Updated:    updated.Format(jira.ExportTimeLayout),
			DueDate:    due.Format(roi.CanonicalDateLayout),
			StartDate:  start.Format(roi.CanonicalDateLayout),
		}
		if assignee == "" {
			rec.Assignee = "Unassigned"
		} else {
			rec.AssigneeID = fmt.Sprintf("acct-%d", rng.Intn(1000))
		}
		if rng.Float64() < cfg.UndatedRatio {
			rec.DueDate = ""
			rec.StartDate = ""
		}
		records = append(records, rec)
	}

	return records
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}
