package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roi-insight/internal/jira"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	fetchProjectName string
	fetchProjectKey  string
	fetchJQL         string
	fetchName        string
	fetchMax         int
	fetchEvery       string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull a project's issues from Jira Cloud into a stored dataset",
	Example: `  roi-insight fetch --project-key FIN --name fintechco
  roi-insight fetch --project-name "Payments Platform" --max 2000
  roi-insight fetch --project-key FIN --every "0 6 * * 1-5"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jql := strings.TrimSpace(fetchJQL)
		if jql == "" {
			var err error
			jql, err = jira.BuildProjectJQL(fetchProjectName, fetchProjectKey)
			if err != nil {
				return err
			}
		}

		name := fetchName
		if name == "" {
			name = datasetNameFor(fetchProjectKey, fetchProjectName)
		}
		if _, err := store.Path(name); err != nil {
			return err
		}

		if strings.TrimSpace(fetchEvery) == "" {
			return fetchOnce(cmd.Context(), cmd.OutOrStdout(), jql, name)
		}

		sched, err := parseSchedule(fetchEvery)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runScheduled(ctx, sched, time.Now, func(ctx context.Context) error {
			return fetchOnce(ctx, cmd.OutOrStdout(), jql, name)
		})
	},
}

func fetchOnce(parent context.Context, out io.Writer, jql, name string) error {
	ctx, cancel := context.WithTimeout(parent, 30*time.Minute)
	defer cancel()

	user, err := jiraClient.TestConnection(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("user", user.DisplayName).Str("jql", jql).Msg("Connected to Jira, fetching issues")

	issues, err := jiraClient.SearchAll(ctx, jql, fetchMax)
	if err != nil {
		return err
	}

	records := jira.ToRecords(issues, cfg.Jira.StartDateField)
	if err := store.Save(name, records); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %d issues to dataset %q\n", len(records), name)
	return nil
}

// parseSchedule accepts a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
func parseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("invalid --every schedule %q: %w", spec, err)
	}
	return sched, nil
}

// runScheduled calls job at every activation of sched until ctx is done.
// A failed run is logged and the next activation still fires.
func runScheduled(ctx context.Context, sched cron.Schedule, now func() time.Time, job func(context.Context) error) error {
	for ctx.Err() == nil {
		current := now()
		next := sched.Next(current)
		wait := next.Sub(current)
		log.Info().Time("next", next).Dur("in", wait.Round(time.Second)).Msg("Next scheduled fetch")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("Scheduled fetch stopped")
			return nil
		case <-timer.C:
		}

		if err := job(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled fetch failed")
		}
	}
	return nil
}

// datasetNameFor derives a file-safe dataset name from a project key or name.
func datasetNameFor(key, name string) string {
	src := strings.TrimSpace(key)
	if src == "" {
		src = strings.TrimSpace(name)
	}
	src = strings.ToLower(src)

	var sb strings.Builder
	for _, r := range src {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ' || r == '.':
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-_")
	if out == "" {
		return "jira-export"
	}
	return out
}

func init() {
	fetchCmd.Flags().StringVar(&fetchProjectName, "project-name", "", "Jira project name")
	fetchCmd.Flags().StringVar(&fetchProjectKey, "project-key", "", "Jira project key")
	fetchCmd.Flags().StringVar(&fetchJQL, "jql", "", "custom JQL (overrides --project-name and --project-key)")
	fetchCmd.Flags().StringVar(&fetchName, "name", "", "dataset name to save as (default derived from the project)")
	fetchCmd.Flags().IntVar(&fetchMax, "max", 0, "maximum number of issues to fetch (0 for all)")
	fetchCmd.Flags().StringVar(&fetchEvery, "every", "", "re-fetch on a 5-field cron schedule and keep running")
	rootCmd.AddCommand(fetchCmd)
}
