// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/md-assets/internal/history"
	"github.com/pdiddy/md-assets/internal/progress"
	"github.com/pdiddy/md-assets/pkg/types"
)

// shortIDLen is how much of a run ID the list view prints.
const shortIDLen = 8

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded localize runs",
	Long: `History reads the SQLite run ledger written by localize. Use list to see
recent runs, show for per-URL outcomes, and failed to print the URLs that
did not download so they can be retried.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withStore(func(s *history.Store) error {
			runs, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "no runs recorded")
				return nil
			}
			for _, r := range runs {
				printRun(w, r)
			}
			return nil
		})
	},
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show per-URL outcomes of a run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *history.Store) error {
			ctx := cmd.Context()
			run, err := resolveRun(ctx, s, args)
			if err != nil {
				return err
			}
			outcomes, err := s.Outcomes(ctx, run.ID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printRun(w, run)
			for _, o := range outcomes {
				fmt.Fprintln(w, "  "+progress.StatusLine(o.Record, o))
			}
			return nil
		})
	},
}

// --- failed subcommand ---

var historyFailedCmd = &cobra.Command{
	Use:   "failed [run-id]",
	Short: "Print the URLs that failed in a run, one per line (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *history.Store) error {
			ctx := cmd.Context()
			run, err := resolveRun(ctx, s, args)
			if err != nil {
				return err
			}
			urls, err := s.FailedURLs(ctx, run.ID)
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyFailedCmd)
	rootCmd.AddCommand(historyCmd)
}

func withStore(fn func(*history.Store) error) error {
	store, err := history.NewStore(loadConfig().History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func resolveRun(ctx context.Context, s *history.Store, args []string) (types.Run, error) {
	if len(args) == 1 {
		return s.Get(ctx, args[0])
	}
	return s.Latest(ctx)
}

func printRun(w io.Writer, r types.Run) {
	id := r.ID
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	fmt.Fprintf(w, "%s  %s  found %d, downloaded %d, existed %d, failed %d  %s\n",
		id, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		r.Found, r.Downloaded, r.Existed, r.Failed, r.MarkdownPath)
}
