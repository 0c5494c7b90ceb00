package commands

import (
	"roi-insight/internal/config"
	"roi-insight/internal/dataset"
	"roi-insight/internal/jira"
	"roi-insight/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	store   *dataset.Store

	jiraClient jira.Client
)

var rootCmd = &cobra.Command{
	Use:   "roi-insight",
	Short: "roi-insight measures the engineering ROI of AI tooling adoption from Jira data",
	Long: `Compares tickets created before and after an AI tooling adoption date: completion rate,
effort and cost per task, weekly trends and an annualized savings estimate.
Data comes from Jira Cloud or from CSV exports kept in the dataset directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		store, err = dataset.NewStore(cfg.DatasetDir)
		if err != nil {
			return err
		}

		jiraClient = jira.NewClient(cfg.Jira)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("dataPath", cfg.DataPath).
			Msg("roi-insight starting")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
