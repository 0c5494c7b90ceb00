package commands

import (
	"fmt"

	"roi-insight/internal/roi"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [report|summary|timeseries|breakdown|record]",
	Short:     "Print the JSON Schema of an analysis result",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"report", "summary", "timeseries", "breakdown", "record"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "report"
		if len(args) == 1 {
			kind = args[0]
		}
		schema, err := schemaFor(kind)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), schema)
	},
}

func schemaFor(kind string) (*jsonschema.Schema, error) {
	switch kind {
	case "report":
		return jsonschema.For[roi.Report](nil)
	case "summary":
		return jsonschema.For[roi.SummaryMetrics](nil)
	case "timeseries":
		return jsonschema.For[[]roi.WeeklyBucket](nil)
	case "breakdown":
		return jsonschema.For[roi.Breakdown](nil)
	case "record":
		return jsonschema.For[roi.Record](nil)
	default:
		return nil, fmt.Errorf("unknown schema %q", kind)
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
