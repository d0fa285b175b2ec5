package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/qepting91/reddit-harvester/internal/collector"
	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/dashboard"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/qepting91/reddit-harvester/internal/export"
	"github.com/qepting91/reddit-harvester/internal/storage"
	"github.com/qepting91/reddit-harvester/internal/strategy"
	"github.com/qepting91/reddit-harvester/internal/summary"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	collectPrefix = "reddit_data"
	topPosts      = 10
)

// runFlags are the tunables shared by collect, batch and search.
type runFlags struct {
	subreddit   string
	limit       int
	startYear   int
	endYear     int
	minComments int
	ndjson      bool
}

func (f *runFlags) register(cmd *cobra.Command, limit, minComments int, withSubreddit bool) {
	if withSubreddit {
		cmd.Flags().StringVarP(&f.subreddit, "subreddit", "s", "", "The subreddit to scrape, e.g. ADHD.")
	}
	cmd.Flags().IntVarP(&f.limit, "limit", "n", limit, "Maximum number of posts to keep.")
	cmd.Flags().IntVar(&f.startYear, "start-year", config.DefaultStartYear, "First year of the window (inclusive).")
	cmd.Flags().IntVar(&f.endYear, "end-year", config.DefaultEndYear, "Last year of the window (inclusive).")
	cmd.Flags().IntVar(&f.minComments, "min-comments", minComments, "Minimum number of comments for a post to be kept.")
	cmd.Flags().BoolVar(&f.ndjson, "ndjson", false, "Also save the collection as NDJSON with an HTML chart report.")
}

func (f *runFlags) prompt(p *prompter, withSubreddit bool) error {
	if withSubreddit {
		if err := p.String("subreddit", "Enter the subreddit name to scrape (e.g., 'ADHD'): ", &f.subreddit); err != nil {
			return err
		}
	}
	questions := []struct {
		flag     string
		question string
		v        *int
	}{
		{"limit", "Enter the number of posts to scrape (default is %d): ", &f.limit},
		{"start-year", "Enter the start year for filtering (default is %d): ", &f.startYear},
		{"end-year", "Enter the end year for filtering (default is %d): ", &f.endYear},
		{"min-comments", "Enter the minimum number of comments for a post to be included (default is %d): ", &f.minComments},
	}
	for _, q := range questions {
		if err := p.Int(q.flag, fmt.Sprintf(q.question, *q.v), q.v); err != nil {
			return err
		}
	}
	return nil
}

func (f runFlags) request(subreddit string, minComments int) strategy.Request {
	start, end := domain.YearBounds(f.startYear, f.endYear)
	return strategy.Request{
		Subreddit:   subreddit,
		Limit:       f.limit,
		Start:       start,
		End:         end,
		MinComments: minComments,
	}
}

var collectFlags runFlags

func init() {
	collectFlags.register(collectCmd, config.DefaultLimit, config.DefaultMinComments, true)
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect [--subreddit <name>] [--limit <n>] [--start-year <yyyy>] [--end-year <yyyy>] [--min-comments <n>]",
	Short: "Collects the most discussed posts of a subreddit across every listing and writes them to xlsx.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := collectFlags.prompt(newPrompter(cmd), true); err != nil {
			return err
		}

		src, err := newSource()
		if err != nil {
			return err
		}
		logger.Info("Collector initialized", "mode", cfg.Mode)

		req := collectFlags.request(collectFlags.subreddit, collectFlags.minComments)
		posts, err := collect(cmd.Context(), src, req)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if saveErr := save(cmd.OutOrStdout(), collectPrefix, req.Subreddit, posts, collectFlags.ndjson); saveErr != nil {
			return saveErr
		}
		return err
	},
}

func newSource() (domain.Source, error) {
	src, err := collector.NewCollector(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize collector: %w", err)
	}
	return src, nil
}

func collect(ctx context.Context, src domain.Source, req strategy.Request) ([]domain.Post, error) {
	bar := newBar(req.Limit, "Collecting r/"+req.Subreddit)
	defer bar.Finish()

	c := strategy.New(src, logger)
	c.Delay = cfg.FacetDelay
	c.Observer = barObserver{bar: bar, subreddit: req.Subreddit}

	posts, err := c.Collect(ctx, req)
	if errors.Is(err, context.Canceled) {
		logger.Warn("Interrupted, keeping partial collection", "subreddit", req.Subreddit, "total", len(posts))
	}
	return posts, err
}

func newBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

type barObserver struct {
	bar       *progressbar.ProgressBar
	subreddit string
}

func (o barObserver) FacetStarted(facet domain.Facet) {
	o.bar.Describe(fmt.Sprintf("r/%s %s", o.subreddit, facet))
}

func (o barObserver) Collected(total int) {
	o.bar.Set(total)
}

// save writes the workbook, prints the summary and, when asked, the NDJSON
// snapshot with its chart report. An empty collection is only a notice.
func save(out io.Writer, prefix, label string, posts []domain.Post, ndjson bool) error {
	fmt.Fprintf(out, "Scraping completed. Total posts scraped: %d\n", len(posts))

	now := time.Now()
	wb := export.Workbook{
		Dir:    cfg.OutputDir,
		Prefix: prefix,
		Label:  label,
		Now:    func() time.Time { return now },
		Logger: logger,
	}
	path, err := wb.WritePosts(posts)
	if errors.Is(err, export.ErrNothingToExport) {
		fmt.Fprintln(out, "No data to save.")
		return nil
	}
	if err != nil {
		return err
	}
	ids, err := export.ReadPostIDs(path)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if len(ids) != len(posts) {
		return fmt.Errorf("verify %s: %d rows written, want %d", path, len(ids), len(posts))
	}
	fmt.Fprintf(out, "Data saved to %s\n", path)
	summary.Print(out, posts, topPosts)

	if !ndjson {
		return nil
	}
	dataPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("posts_%s%s.ndjson", label, wb.Stamp()))
	if err := storage.WriteNDJSON(dataPath, posts); err != nil {
		return fmt.Errorf("save ndjson: %w", err)
	}
	var report bytes.Buffer
	if err := dashboard.Render(&report, posts); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	reportPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("report_%s%s.html", label, wb.Stamp()))
	if err := storage.WriteText(reportPath, report.String()); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	logger.Info("Snapshot saved", "data", dataPath, "report", reportPath)
	return nil
}
