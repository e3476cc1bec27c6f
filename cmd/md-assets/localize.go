// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/md-assets/internal/history"
	"github.com/pdiddy/md-assets/internal/httputil"
	"github.com/pdiddy/md-assets/internal/localize"
	"github.com/pdiddy/md-assets/internal/progress"
	"github.com/pdiddy/md-assets/pkg/types"
)

var localizeCmd = &cobra.Command{
	Use:   "localize <file.md>",
	Short: "Download linked GitHub attachment images and rewrite the links",
	Long: `Localize scans a Markdown file for URLs on the configured host and path
(GitHub user attachments by default), downloads each image into Images/
next to the file, and rewrites the links to the local copies.

Images already present locally are not downloaded again. Failed downloads
keep their original URL in the file and are listed in the summary; the
command exits non-zero when any image failed. Use "md-assets history failed"
to list the failures of the last run.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocalize,
}

func init() {
	localizeCmd.Flags().String("host", "", "host substring a URL must contain (default https://github.com)")
	localizeCmd.Flags().String("path-filter", "", "path substring a URL must contain (default /user-attachments/assets)")
	localizeCmd.Flags().String("token", "", "GitHub user_session cookie value (default from .secrets/github-user-session)")
	localizeCmd.Flags().Int("workers", 0, "concurrent downloads (default 4)")
	localizeCmd.Flags().String("images-dir", "", "image directory relative to the Markdown file (default Images)")
	localizeCmd.Flags().Duration("timeout", 0, "connect and response-header timeout (default 60s)")
	localizeCmd.Flags().Bool("relink-existing", false, "also rewrite links whose image already exists locally")
	localizeCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	localizeCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	bindFlag(localizeCmd, keyHostFilter, "host")
	bindFlag(localizeCmd, keyPathFilter, "path-filter")
	bindFlag(localizeCmd, keySessionToken, "token")
	bindFlag(localizeCmd, keyWorkers, "workers")
	bindFlag(localizeCmd, keyImagesDir, "images-dir")
	bindFlag(localizeCmd, keyTimeout, "timeout")
	bindFlag(localizeCmd, keyRelinkExisting, "relink-existing")

	rootCmd.AddCommand(localizeCmd)
}

func runLocalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if cfg.Localize.SessionToken == "" {
		zerolog.Ctx(ctx).Warn().Msg("no session token configured; private attachments will fail")
	}

	out := cmd.OutOrStdout()
	l := &localize.Localizer{
		Client: httputil.NewClient(cfg.Localize.HTTPConfig),
		Config: cfg.Localize,
		Out:    out,
	}

	var term *progress.Terminal
	if !noProgress {
		l.NewSink = func(total int) progress.Sink {
			term = progress.NewTerminal(os.Stderr, total)
			return term
		}
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	res, err := l.Run(ctx, path)
	if term != nil {
		term.Close()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, progress.RenderSummary(res.Summary))

	if cfg.History.Enabled && !noHistory && res.Summary.Found > 0 {
		if err := recordRun(ctx, cfg.History, res); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("could not record run history")
		}
	}

	if res.Summary.HasFailures() {
		return fmt.Errorf("%d image(s) failed to download", res.Summary.Failed)
	}
	return nil
}

func recordRun(ctx context.Context, cfg types.HistoryConfig, res localize.Result) error {
	store, err := history.NewStore(cfg.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	run := types.RunFromSummary(res.Summary, res.Started, res.Finished)
	return store.Record(ctx, run, res.Outcomes)
}
