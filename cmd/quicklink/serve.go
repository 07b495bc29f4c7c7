package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/quicklink/internal/app"
	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API",
	Long: `Serve the search, execute, item and command endpoints until SIGINT or SIGTERM.

Examples:
  quicklink serve
  QUICKLINK_STORE_BACKEND=sqlite quicklink serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	return a.Run()
}
