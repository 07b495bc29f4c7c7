package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/quicklink/internal/app"
	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

var (
	importServicesFlag  string
	importBookmarksFlag string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import links from a Homepage dashboard config",
	Long: `Add every service and bookmark link of a Homepage (gethomepage.dev) config as an item.

Links already stored are skipped, so the import can be re-run safely.

Examples:
  quicklink import --services ~/homepage/services.yaml
  quicklink import --services services.yaml --bookmarks bookmarks.yaml`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importServicesFlag, "services", "", "Path to services.yaml")
	importCmd.Flags().StringVar(&importBookmarksFlag, "bookmarks", "", "Path to bookmarks.yaml")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importServicesFlag == "" && importBookmarksFlag == "" {
		return errors.New("at least one of --services or --bookmarks is required")
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	core, err := app.NewCore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer core.Close(cfg.ShutdownTimeout)

	if err := core.Prepare(ctx); err != nil {
		return err
	}

	res, err := core.ImportHomepage(ctx, importServicesFlag, importBookmarksFlag)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d links (%d already present)\n", res.Added, res.Skipped)
	return nil
}
