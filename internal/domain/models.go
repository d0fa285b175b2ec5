package domain

import (
	"context"
	"time"
)

// Target represents a scraping task
type Target struct {
	Subreddit   string
	MinComments int
}

// Post is the clean data structure for storage
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"selftext"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	Created     time.Time `json:"created_utc"`
	Subreddit   string    `json:"subreddit"`
	Permalink   string    `json:"permalink"`
	IsSelf      bool      `json:"is_self"`
	IsVideo     bool      `json:"is_video"`
	Over18      bool      `json:"over_18"`
	Spoiler     bool      `json:"spoiler"`
	Stickied    bool      `json:"stickied"`
}

// Listing is one page of a facet's stream. An empty After ends the stream.
type Listing struct {
	Posts []Post
	After string
}

// Source defines the interface for data fetching
type Source interface {
	FetchListing(ctx context.Context, subreddit string, facet Facet, after string) (Listing, error)
}
