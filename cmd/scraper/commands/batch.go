package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	batchFlags   runFlags
	batchTargets string
)

func init() {
	batchFlags.register(batchCmd, config.DefaultLimit, config.DefaultMinComments, false)
	batchCmd.Flags().StringVarP(&batchTargets, "targets", "t", "input/subreddits.csv", "CSV of subreddit,min_comments rows.")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [--targets <path/to/subreddits.csv>]",
	Short: "Runs collect for every subreddit listed in a targets CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := batchFlags.prompt(newPrompter(cmd), false); err != nil {
			return err
		}

		// --min-comments is the fallback for rows without a threshold.
		targets, err := ingest.LoadTargets(batchTargets, batchFlags.minComments)
		if err != nil {
			return fmt.Errorf("load targets: %w", err)
		}
		if len(targets) == 0 {
			return fmt.Errorf("no valid targets in %s", batchTargets)
		}

		src, err := newSource()
		if err != nil {
			return err
		}
		logger.Info("Starting batch", "targets", len(targets), "mode", cfg.Mode)

		ctx := cmd.Context()
		failed := 0
		for _, t := range targets {
			req := batchFlags.request(t.Subreddit, t.MinComments)
			posts, err := collect(ctx, src, req)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Collection failed", "subreddit", t.Subreddit, "err", err)
				failed++
				continue
			}
			if saveErr := save(cmd.OutOrStdout(), collectPrefix, t.Subreddit, posts, batchFlags.ndjson); saveErr != nil {
				logger.Error("Save failed", "subreddit", t.Subreddit, "err", saveErr)
				failed++
			}
			if err != nil {
				return err
			}
		}

		logger.Info("Batch complete", "targets", len(targets), "failed", failed)
		return nil
	},
}
