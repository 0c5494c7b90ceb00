package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"
	"roi-insight/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// sourceFlags select the export to analyze and the adoption date.
type sourceFlags struct {
	dataset      string
	file         string
	adoptionDate string
	keepUndated  bool
}

func (f *sourceFlags) register(cmd *cobra.Command, withAdoptionDate bool) {
	cmd.Flags().StringVarP(&f.dataset, "dataset", "d", "", "name of a stored dataset")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a CSV export (instead of --dataset)")
	if withAdoptionDate {
		cmd.Flags().StringVarP(&f.adoptionDate, "adoption-date", "a", "", "date the AI tooling was adopted (e.g. 2025-08-25)")
	}
	cmd.Flags().BoolVar(&f.keepUndated, "keep-undated", false, "count tickets without start or due date in task totals")
}

// label names the source in reports and output files.
func (f *sourceFlags) label() string {
	if f.dataset != "" {
		return f.dataset
	}
	return strings.TrimSuffix(filepath.Base(f.file), filepath.Ext(f.file))
}

func (f *sourceFlags) records() ([]roi.Record, error) {
	switch {
	case f.dataset != "" && f.file != "":
		return nil, errors.New("--dataset and --file are mutually exclusive")
	case f.dataset != "":
		return store.Load(f.dataset)
	case f.file != "":
		return dataset.LoadFile(f.file)
	default:
		return nil, errors.New("one of --dataset or --file is required")
	}
}

func (f *sourceFlags) options() roi.Options {
	opts := cfg.Analysis
	if f.keepUndated {
		opts.KeepUndated = true
	}
	return opts
}

func (f *sourceFlags) session() (*roi.AnalysisSession, error) {
	records, err := f.records()
	if err != nil {
		return nil, err
	}
	return roi.NewAnalysisSession(records, f.adoptionDate, f.options())
}

var (
	analyzeSource     sourceFlags
	analyzeView       string
	analyzeFormat     string
	analyzeExportXLSX string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare pre- and post-adoption metrics for a dataset",
	Example: `  roi-insight analyze --dataset fintechco --adoption-date 2025-08-25
  roi-insight analyze -f export.csv -a 25/Aug/25 --view timeseries
  roi-insight analyze -d fintechco -a 2025-08-25 --format markdown --export-xlsx out.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := analyzeSource.session()
		if err != nil {
			return err
		}

		if analyzeExportXLSX != "" {
			if err := dataset.ExportXLSX(analyzeExportXLSX, session); err != nil {
				return err
			}
			log.Info().Str("path", analyzeExportXLSX).Msg("Processed tickets exported")
		}

		out := cmd.OutOrStdout()
		switch analyzeFormat {
		case "json":
			return writeView(out, session, analyzeView)
		case "markdown", "md":
			dist := session.DurationDistribution()
			_, err := io.WriteString(out, visuals.Markdown(session.Report(), visuals.ReportOptions{
				Dataset:       analyzeSource.label(),
				IncludeCharts: cfg.EnableMermaidCharts,
				Distribution:  &dist,
			}))
			return err
		default:
			return fmt.Errorf("unknown format %q (want json or markdown)", analyzeFormat)
		}
	},
}

func writeView(w io.Writer, session *roi.AnalysisSession, view string) error {
	var data interface{}
	switch view {
	case "all":
		data = session.Report()
	case "summary":
		data = session.Summary()
	case "timeseries":
		data = session.TimeSeries()
	case "status":
		data = session.StatusBreakdown()
	case "priority":
		data = session.PriorityBreakdown()
	case "distribution":
		data = session.DurationDistribution()
	case "tickets":
		data = session.Tickets()
	default:
		return fmt.Errorf("unknown view %q (want all, summary, timeseries, status, priority, distribution or tickets)", view)
	}
	return writeJSON(w, data)
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func init() {
	analyzeSource.register(analyzeCmd, true)
	analyzeCmd.Flags().StringVar(&analyzeView, "view", "all", "json view: all, summary, timeseries, status, priority, distribution or tickets")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format: json or markdown")
	analyzeCmd.Flags().StringVar(&analyzeExportXLSX, "export-xlsx", "", "also write processed tickets and metrics to this .xlsx file")
	rootCmd.AddCommand(analyzeCmd)
}
