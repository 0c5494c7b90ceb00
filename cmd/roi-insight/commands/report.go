package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"roi-insight/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportSource sourceFlags
	reportOut    string
	reportTitle  string
	reportOpen   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML dashboard report with charts",
	Example: `  roi-insight report -d fintechco -a 2025-08-25 --open
  roi-insight report -f export.csv -a 2025-08-25 -o roi.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := reportSource.session()
		if err != nil {
			return err
		}

		title := reportTitle
		if title == "" {
			title = fmt.Sprintf("Engineering ROI: %s", reportSource.label())
		}
		dist := session.DurationDistribution()
		md := visuals.Markdown(session.Report(), visuals.ReportOptions{
			Title:         title,
			Dataset:       reportSource.label(),
			IncludeCharts: true,
			Distribution:  &dist,
		})
		page, err := visuals.HTML(title, md)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = filepath.Join(cfg.ExportDir, fmt.Sprintf("%s-%s.html", reportSource.label(), session.AdoptionDate().Format("20060102")))
		}
		if err := os.WriteFile(out, page, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", out).Msg("Report written")
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if reportOpen {
			if err := browser.OpenFile(out); err != nil {
				log.Warn().Err(err).Msg("Could not open report in browser")
			}
		}
		return nil
	},
}

func init() {
	reportSource.register(reportCmd, true)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default <exports>/<dataset>-<date>.html)")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "report title")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
	rootCmd.AddCommand(reportCmd)
}
