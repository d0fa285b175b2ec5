package pushshift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/qepting91/reddit-harvester/internal/domain"
)

// Pager fetches one page of search results.
type Pager interface {
	SearchPage(ctx context.Context, q Query) ([]domain.Post, error)
}

// Request bounds one historical search. Start and End are inclusive.
type Request struct {
	Subreddit   string
	Limit       int
	Start       time.Time
	End         time.Time
	MinComments int
}

// Progress is called after every accepted post.
type Progress func(total int)

// Search walks the window from End back to Start one page at a time,
// keeping posts with at least MinComments comments until Limit is reached.
// A failing page is logged and ends the search with what was gathered.
// The result is sorted by comment count, descending.
func Search(ctx context.Context, pager Pager, req Request, logger *slog.Logger, progress Progress) ([]domain.Post, error) {
	switch {
	case req.Subreddit == "":
		return nil, errors.New("subreddit name is required")
	case req.Limit <= 0:
		return nil, fmt.Errorf("limit must be positive, got %d", req.Limit)
	case req.Start.After(req.End):
		return nil, fmt.Errorf("start %s is after end %s", req.Start.Format(time.DateOnly), req.End.Format(time.DateOnly))
	case req.MinComments < 0:
		return nil, fmt.Errorf("minimum comments must not be negative, got %d", req.MinComments)
	}

	log := logger.With("component", "pushshift", "subreddit", req.Subreddit)
	seen := make(map[string]struct{})
	var posts []domain.Post

	after := req.Start.Add(-time.Second)
	before := req.End.Add(time.Second)

	for len(posts) < req.Limit {
		page, err := pager.SearchPage(ctx, Query{
			Subreddit: req.Subreddit,
			After:     after,
			Before:    before,
			Size:      maxPageSize,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sortByComments(posts), ctxErr
			}
			log.Error("An error occurred while scraping", "err", err, "count", len(posts))
			break
		}
		if len(page) == 0 {
			break
		}

		fresh := 0
		oldest := page[0].Created
		for _, p := range page {
			if p.Created.Before(oldest) {
				oldest = p.Created
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			fresh++

			if p.NumComments < req.MinComments || p.Created.Before(req.Start) || p.Created.After(req.End) {
				continue
			}
			posts = append(posts, p)
			if len(posts)%100 == 0 {
				log.Info("Scraped posts", "count", len(posts))
			}
			if progress != nil {
				progress(len(posts))
			}
			if len(posts) >= req.Limit {
				break
			}
		}

		if fresh == 0 {
			break
		}
		// the boundary second is re-requested; dedup drops the repeats
		before = oldest.Add(time.Second)
	}

	log.Info("Search finished", "total", len(posts))
	return sortByComments(posts), nil
}

func sortByComments(posts []domain.Post) []domain.Post {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].NumComments > posts[j].NumComments
	})
	return posts
}
