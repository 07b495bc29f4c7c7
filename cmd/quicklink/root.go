package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/quicklink/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "quicklink",
	Short: "QuickLink - launcher search engine",
	Long: `QuickLink ranks saved links, snippets and commands for a launcher search box.

Without a subcommand it serves the HTTP API, same as "quicklink serve".
Every setting comes from QUICKLINK_* environment variables.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.SetVersionTemplate("QuickLink version {{.Version}}\n")
}
