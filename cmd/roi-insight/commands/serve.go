package commands

import (
	"os"
	"os/signal"
	"syscall"

	"roi-insight/internal/api"
	"roi-insight/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mcp.NewServer(cfg, store, Version).Start(ctx)
	},
}

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Run the JSON API for dashboards",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := httpAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}
		return api.ListenAndServe(ctx, addr, api.NewHandler(store, cfg.Analysis).Routes())
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default HTTP_ADDR or :5001)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
}
