package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MrSnakeDoc/quicklink/internal/app"
	"github.com/MrSnakeDoc/quicklink/internal/config"
	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

var (
	queryLimitFlag    int
	queryBuiltinsFlag bool
	queryJSONFlag     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run one search against the configured store",
	Long: `Resolve a search box text once and print the ranked results.

Output is a table on a terminal and JSON otherwise.

Examples:
  quicklink query git
  quicklink query "/docs readme"
  quicklink query --json ""`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryLimitFlag, "limit", 0, "Maximum results (default from QUICKLINK_RESULT_LIMIT)")
	queryCmd.Flags().BoolVar(&queryBuiltinsFlag, "builtins", true, "Offer built-in commands in browse mode")
	queryCmd.Flags().BoolVar(&queryJSONFlag, "json", false, "Output as JSON")
	rootCmd.AddCommand(queryCmd)
}

type queryOutput struct {
	Query   string           `json:"query"`
	Mode    domain.QueryMode `json:"mode"`
	Results []handlers.Row   `json:"results"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := ""
	if len(args) == 1 {
		text = args[0]
	}

	cfg := config.Load()
	// Keep stdout clean for the results
	level := "warn"
	if cfg.LogLevel == "debug" {
		level = cfg.LogLevel
	}
	log := logger.New(level, cfg.PrettyLog)
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

	resp := core.Query(ctx, text, queryLimitFlag, queryBuiltinsFlag || strings.TrimSpace(text) != "")
	out := queryOutput{Query: text, Mode: resp.Mode, Results: handlers.Rows(resp.Results)}

	if queryJSONFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printRows(cmd.OutOrStdout(), out)
}

func printRows(w io.Writer, out queryOutput) error {
	fmt.Fprintf(w, "Mode: %s\n\n", out.Mode)
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tICON\tTITLE\tVALUE\tSCORE\tACTION")
	for i, row := range out.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
			i+1, row.Icon, row.Title, row.Value, row.Score, row.Action.Type)
	}
	return tw.Flush()
}
