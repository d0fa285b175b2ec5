// Package pushshift queries a pushshift-compatible historical submission
// search (pushshift.io, Arctic Shift) over an epoch window.
package pushshift

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"golang.org/x/time/rate"
)

// maxPageSize is the largest page the search endpoints honour.
const maxPageSize = 100

// Query is one page request. After and Before are exclusive epoch bounds.
type Query struct {
	Subreddit string
	After     time.Time
	Before    time.Time
	Size      int
}

type searchResponse struct {
	Data []domain.RawPost `json:"data"`
}

type Client struct {
	http      *resty.Client
	searchURL string
	limiter   *rate.Limiter
}

// NewClient targets a full search URL such as
// https://arctic-shift.photon-reddit.com/api/posts/search.
func NewClient(searchURL, userAgent string) *Client {
	return newClient(searchURL, userAgent, rate.Every(time.Second))
}

func newClient(searchURL, userAgent string, every rate.Limit) *Client {
	client := resty.New().SetTimeout(30 * time.Second)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Client{http: client, searchURL: searchURL, limiter: rate.NewLimiter(every, 1)}
}

// SearchPage returns one page of submissions, newest first.
func (c *Client) SearchPage(ctx context.Context, q Query) ([]domain.Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	size := q.Size
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"subreddit": q.Subreddit,
			"after":     strconv.FormatInt(q.After.Unix(), 10),
			"before":    strconv.FormatInt(q.Before.Unix(), 10),
			"limit":     strconv.Itoa(size),
			"sort":      "desc",
		}).
		SetResult(&body).
		Get(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search status %d: %s", resp.StatusCode(), resp.String())
	}

	posts := make([]domain.Post, 0, len(body.Data))
	for _, raw := range body.Data {
		p, err := raw.Post()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}
