// Package strategy accumulates qualifying posts from a subreddit by walking
// every sort order and time window until a target count is reached.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/qepting91/reddit-harvester/internal/domain"
)

// progressEvery is how often (in accumulated posts) progress is reported.
const progressEvery = 100

// Request bounds one collection run.
type Request struct {
	Subreddit   string
	Limit       int
	Start       time.Time
	End         time.Time
	MinComments int
}

func (r Request) validate() error {
	switch {
	case r.Subreddit == "":
		return errors.New("subreddit name is required")
	case r.Limit <= 0:
		return fmt.Errorf("limit must be positive, got %d", r.Limit)
	case r.Start.After(r.End):
		return fmt.Errorf("start %s is after end %s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	case r.MinComments < 0:
		return fmt.Errorf("minimum comments must not be negative, got %d", r.MinComments)
	}
	return nil
}

// Observer receives progress notifications. Implementations must be cheap;
// they run on the collecting goroutine.
type Observer interface {
	FacetStarted(facet domain.Facet)
	Collected(total int)
}

// Collector runs the facet walk against a Source.
type Collector struct {
	Source   domain.Source
	Facets   []domain.Facet
	Delay    time.Duration
	Logger   *slog.Logger
	Observer Observer
}

// New returns a Collector over the default facet space with a one second
// courtesy delay between facets.
func New(src domain.Source, logger *slog.Logger) *Collector {
	return &Collector{
		Source: src,
		Facets: domain.DefaultFacets(),
		Delay:  time.Second,
		Logger: logger.With("component", "strategy"),
	}
}

// facetOutcome is why a facet's stream stopped being consumed.
type facetOutcome int

const (
	exhausted facetOutcome = iota
	limitReached
	passedStart
	failed
)

func (o facetOutcome) String() string {
	return [...]string{"exhausted", "limit reached", "passed start", "failed"}[o]
}

type run struct {
	req   Request
	posts []domain.Post
	seen  map[string]struct{}
}

// Collect walks the facets in order and returns the accumulated posts sorted
// by comment count, descending. A facet whose stream errors is logged and
// skipped. Cancelling ctx returns what was gathered so far along with
// ctx.Err().
//
// A post created before req.Start ends the current facet, on every facet.
// That is only sound for recency-ordered listings (hot, new); on top and
// controversial it can cut off older qualifying posts.
func (c *Collector) Collect(ctx context.Context, req Request) ([]domain.Post, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	r := &run{req: req, seen: make(map[string]struct{})}
	log := c.Logger.With("subreddit", req.Subreddit)
	log.Info("Scraping posts",
		"start", req.Start, "end", req.End, "limit", req.Limit, "min_comments", req.MinComments)

	var err error
	for i, facet := range c.Facets {

		log.Info("Trying facet", "sort", facet.Sort, "time_filter", facet.Window)
		if c.Observer != nil {
			c.Observer.FacetStarted(facet)
		}

		var outcome facetOutcome
		outcome, err = c.consume(ctx, r, facet)
		log.Debug("Facet finished", "facet", facet.String(), "outcome", outcome.String(), "total", len(r.posts))
		if err != nil || outcome == limitReached || i == len(c.Facets)-1 {
			break
		}

		// courtesy pause between facets, failed ones included
		if err = sleep(ctx, c.Delay); err != nil {
			break
		}
	}

	sort.Slice(r.posts, func(i, j int) bool {
		return r.posts[i].NumComments > r.posts[j].NumComments
	})
	log.Info("Collection finished", "total", len(r.posts))
	return r.posts, err
}

// consume reads one facet's stream page by page. The returned error is only
// ever a context error; source failures end the facet with outcome failed.
func (c *Collector) consume(ctx context.Context, r *run, facet domain.Facet) (facetOutcome, error) {
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		listing, err := c.Source.FetchListing(ctx, r.req.Subreddit, facet, after)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return failed, ctxErr
			}
			c.Logger.Error("Error during scraping",
				"subreddit", r.req.Subreddit, "facet", facet.String(), "err", err)
			return failed, nil
		}

		for _, p := range listing.Posts {
			if outcome, stop := r.offer(c, p); stop {
				return outcome, nil
			}
		}

		if listing.After == "" || len(listing.Posts) == 0 {
			return exhausted, nil
		}
		after = listing.After
	}
}

// offer applies the window, threshold and dedup checks to one post and
// reports whether the facet should stop.
func (r *run) offer(c *Collector, p domain.Post) (facetOutcome, bool) {
	created := p.Created
	inWindow := !created.Before(r.req.Start) && !created.After(r.req.End)

	if inWindow && p.NumComments >= r.req.MinComments {
		if _, dup := r.seen[p.ID]; !dup {
			r.seen[p.ID] = struct{}{}
			r.posts = append(r.posts, p)

			if len(r.posts)%progressEvery == 0 {
				c.Logger.Info("Scraped posts so far", "subreddit", r.req.Subreddit, "count", len(r.posts))
			}
			if c.Observer != nil {
				c.Observer.Collected(len(r.posts))
			}
		}
		if len(r.posts) >= r.req.Limit {
			return limitReached, true
		}
	}

	if created.Before(r.req.Start) {
		return passedStart, true
	}
	return exhausted, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
