package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the Jira projects visible to the configured account",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := jiraClient.GetProjects(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tID")
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Key, p.Name, p.ID)
		}
		return tw.Flush()
	},
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the stored datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(datasetsCmd)
}
