package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"roi-insight/cmd/mockgen/engine"
	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"
)

func main() {
	name := flag.String("name", "demo", "Dataset name to save as")
	project := flag.String("project", "DEMO", "Project key used for issue keys")
	adoption := flag.String("adoption-date", "2025-08-25", "Adoption date the improvement starts at")
	improvement := flag.Float64("improvement", 0.35, "Fraction by which post-adoption durations shrink (0-1)")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	span := flag.Int("span", 180, "Number of days covered, centred on the adoption date")
	undated := flag.Float64("undated", 0.05, "Share of tickets without start or due date")
	outDir := flag.String("out", "./datasets", "Dataset directory")
	count := flag.Int("count", 400, "Number of issues to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	adoptionDate, err := roi.ParseDate(*adoption)
	if err != nil {
		fmt.Printf("Invalid adoption date: %v\n", err)
		os.Exit(1)
	}
	if *improvement < 0 || *improvement >= 1 {
		fmt.Printf("Improvement must be in [0, 1), got %v\n", *improvement)
		os.Exit(1)
	}

	cfg := engine.GeneratorConfig{
		ProjectKey:   *project,
		Distribution: *distribution,
		Count:        *count,
		AdoptionDate: adoptionDate,
		SpanDays:     *span,
		Improvement:  *improvement,
		UndatedRatio: *undated,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating %d issues (Distribution: %s, Improvement: %.0f%%) to %s/%s.csv...\n",
		cfg.Count, cfg.Distribution, cfg.Improvement*100, *outDir, *name)

	store, err := dataset.NewStore(*outDir)
	if err != nil {
		fmt.Printf("Failed to open dataset directory: %v\n", err)
		os.Exit(1)
	}
	if err := store.Save(*name, engine.Generate(cfg)); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
