package commands

import (
	"errors"
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"

	"roi-insight/internal/roi"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// SweepPoint is the headline of one candidate adoption date.
type SweepPoint struct {
	AdoptionDate          string  `json:"adoption_date"`
	PreTasks              int     `json:"pre_tasks"`
	PostTasks             int     `json:"post_tasks"`
	TimeSavingsPercent    float64 `json:"time_savings_percent"`
	CostSavingsPerTask    float64 `json:"cost_savings_per_task"`
	AnnualSavingsEstimate float64 `json:"annual_savings_estimate"`
}

var (
	sweepSource sourceFlags
	sweepFrom   string
	sweepTo     string
	sweepStep   int
	sweepJSON   bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the analysis for a range of candidate adoption dates",
	Long: `Builds one analysis per candidate adoption date between --from and --to and
prints the headline metrics side by side. Useful when the adoption was gradual
and no single cut-over date is obvious.`,
	Example: `  roi-insight sweep -d fintechco --from 2025-07-01 --to 2025-10-01 --step 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dates, err := sweepDates(sweepFrom, sweepTo, sweepStep)
		if err != nil {
			return err
		}
		records, err := sweepSource.records()
		if err != nil {
			return err
		}

		points, err := runSweep(records, dates, sweepSource.options())
		if err != nil {
			return err
		}

		if sweepJSON {
			return writeJSON(cmd.OutOrStdout(), points)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "ADOPTION\tPRE\tPOST\tTIME SAVED %\tSAVED/TASK\tANNUAL\t")
		for _, p := range points {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.2f\t%.2f\t\n",
				p.AdoptionDate, p.PreTasks, p.PostTasks, p.TimeSavingsPercent, p.CostSavingsPerTask, p.AnnualSavingsEstimate)
		}
		return tw.Flush()
	},
}

// sweepDates expands [from, to] into canonical dates stepDays apart, both ends inclusive.
func sweepDates(from, to string, stepDays int) ([]string, error) {
	if stepDays <= 0 {
		return nil, fmt.Errorf("step must be positive, got %d", stepDays)
	}
	start, err := roi.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := roi.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("invalid --to: %w", err)
	}
	if end.Before(start) {
		return nil, errors.New("--to is before --from")
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, stepDays) {
		dates = append(dates, d.Format(roi.CanonicalDateLayout))
	}
	return dates, nil
}

// runSweep analyses every date concurrently. Each session copies records, so they are shared read-only.
func runSweep(records []roi.Record, dates []string, opts roi.Options) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(dates))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	start := time.Now()
	for i, date := range dates {
		g.Go(func() error {
			session, err := roi.NewAnalysisSession(records, date, opts)
			if err != nil {
				return fmt.Errorf("adoption date %s: %w", date, err)
			}
			sum := session.Summary()
			points[i] = SweepPoint{
				AdoptionDate:          sum.AdoptionDate,
				PreTasks:              sum.Pre.TotalTasks,
				PostTasks:             sum.Post.TotalTasks,
				TimeSavingsPercent:    sum.Improvements.TimeSavingsPercent,
				CostSavingsPerTask:    sum.Improvements.CostSavingsPerTask,
				AnnualSavingsEstimate: sum.Improvements.AnnualSavingsEstimate,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("dates", len(dates)).Int("rows", len(records)).Dur("elapsed", time.Since(start)).Msg("Sweep complete")
	return points, nil
}

func init() {
	sweepSource.register(sweepCmd, false)
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "first candidate adoption date")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "last candidate adoption date")
	sweepCmd.Flags().IntVar(&sweepStep, "step", 7, "days between candidate dates")
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "print JSON instead of a table")
	_ = sweepCmd.MarkFlagRequired("from")
	_ = sweepCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(sweepCmd)
}
