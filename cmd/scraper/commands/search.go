package commands

import (
	"context"
	"errors"

	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/pushshift"
	"github.com/spf13/cobra"
)

const searchPrefix = "reddit_search"

var searchFlags runFlags

func init() {
	searchFlags.register(searchCmd, config.DefaultSearchLimit, config.DefaultSearchMinComments, true)
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [--subreddit <name>] [--limit <n>] [--start-year <yyyy>] [--end-year <yyyy>] [--min-comments <n>]",
	Short: "Searches the pushshift-compatible archive for a subreddit's posts within a year window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &searchFlags
		if err := f.prompt(newPrompter(cmd), true); err != nil {
			return err
		}

		userAgent := cfg.Credentials.UserAgent
		if userAgent == "" {
			userAgent = "reddit-harvester"
		}
		client := pushshift.NewClient(cfg.PushshiftURL, userAgent)

		r := f.request(f.subreddit, f.minComments)
		bar := newBar(r.Limit, "Searching r/"+r.Subreddit)
		posts, err := pushshift.Search(cmd.Context(), client, pushshift.Request{
			Subreddit:   r.Subreddit,
			Limit:       r.Limit,
			Start:       r.Start,
			End:         r.End,
			MinComments: r.MinComments,
		}, logger, func(total int) { bar.Set(total) })
		bar.Finish()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		if saveErr := save(cmd.OutOrStdout(), searchPrefix, r.Subreddit, posts, f.ndjson); saveErr != nil {
			return saveErr
		}
		return err
	},
}
