package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/qepting91/reddit-harvester/internal/storage"
)

// topAuthors is how many authors the engagement chart shows.
const topAuthors = 15

// Render writes an HTML page of charts describing posts.
func Render(w io.Writer, posts []domain.Post) error {
	page := components.NewPage()
	page.PageTitle = "Reddit collection"
	page.AddCharts(subredditPie(posts), yearBar(posts), authorBar(posts))
	return page.Render(w)
}

// 1. Subreddit share
func subredditPie(posts []domain.Post) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subreddit Share"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	subCounts := make(map[string]int)
	for _, p := range posts {
		subCounts[p.Subreddit]++
	}

	var pieItems []opts.PieData
	for _, k := range sortedKeys(subCounts) {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: subCounts[k]})
	}
	pie.AddSeries("Posts", pieItems)
	return pie
}

// 2. Posts and comments per year
func yearBar(posts []domain.Post) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Posts per Year"}))

	postCounts := make(map[string]int)
	commentCounts := make(map[string]int)
	for _, p := range posts {
		y := strconv.Itoa(p.Created.UTC().Year())
		postCounts[y]++
		commentCounts[y] += p.NumComments
	}

	years := sortedKeys(postCounts)
	var postBars, commentBars []opts.BarData
	for _, y := range years {
		postBars = append(postBars, opts.BarData{Value: postCounts[y]})
		commentBars = append(commentBars, opts.BarData{Value: commentCounts[y]})
	}
	bar.SetXAxis(years).
		AddSeries("Posts", postBars).
		AddSeries("Comments", commentBars)
	return bar
}

// 3. Authors drawing the most comments
func authorBar(posts []domain.Post) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Authors by Comments"}))

	byAuthor := make(map[string]int)
	for _, p := range posts {
		byAuthor[p.Author] += p.NumComments
	}
	authors := sortedKeys(byAuthor)
	sort.SliceStable(authors, func(i, j int) bool {
		return byAuthor[authors[i]] > byAuthor[authors[j]]
	})
	if len(authors) > topAuthors {
		authors = authors[:topAuthors]
	}

	var barY []opts.BarData
	for _, a := range authors {
		barY = append(barY, opts.BarData{Value: byAuthor[a]})
	}
	bar.SetXAxis(authors).AddSeries("Comments", barY)
	return bar
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Handler renders the NDJSON collection at dataFile on every request.
func Handler(dataFile string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		posts, skipped, err := storage.ReadNDJSON(dataFile)
		if err != nil {
			logger.Error("Failed to load data", "file", dataFile, "err", err)
			http.Error(w, fmt.Sprintf("failed to load %s", dataFile), http.StatusInternalServerError)
			return
		}
		if skipped > 0 {
			logger.Warn("Skipped malformed lines", "file", dataFile, "count", skipped)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := Render(w, posts); err != nil {
			logger.Error("Render failed", "err", err)
		}
	})
	return mux
}

// StartServer serves the dashboard until ctx is cancelled.
func StartServer(ctx context.Context, dataFile string, port string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(dataFile, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting Dashboard", "port", port, "data", dataFile)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
