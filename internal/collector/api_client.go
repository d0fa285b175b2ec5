package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"golang.org/x/time/rate"
)

// pageSize is the largest page reddit serves for a listing.
const pageSize = 100

type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// NewAPIClient authenticates with the reddit OAuth API. Without a username
// and password it falls back to a read-only client, which is enough to read
// public listings.
func NewAPIClient(creds config.Credentials) (*APIClient, error) {
	// API Rate Limit: ~60 reqs/min (safe buffer)
	return newAPIClient(creds, rate.Every(1*time.Second))
}

func newAPIClient(creds config.Credentials, every rate.Limit, extra ...reddit.Opt) (*APIClient, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	opts := append([]reddit.Opt{reddit.WithUserAgent(creds.UserAgent)}, extra...)

	var (
		client *reddit.Client
		err    error
	)
	if creds.Username == "" || creds.Password == "" {
		client, err = reddit.NewReadonlyClient(opts...)
	} else {
		client, err = reddit.NewClient(reddit.Credentials{
			ID:       creds.ClientID,
			Secret:   creds.ClientSecret,
			Username: creds.Username,
			Password: creds.Password,
		}, opts...)
	}
	if err != nil {
		return nil, err
	}

	return &APIClient{client: client, limiter: rate.NewLimiter(every, 1)}, nil
}

func (ac *APIClient) FetchListing(ctx context.Context, sub string, facet domain.Facet, after string) (domain.Listing, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.Listing{}, err
	}

	list := reddit.ListOptions{Limit: pageSize, After: after}
	windowed := &reddit.ListPostOptions{ListOptions: list, Time: string(facet.Window)}

	var (
		posts []*reddit.Post
		resp  *reddit.Response
		err   error
	)
	switch facet.Sort {
	case domain.SortTop:
		posts, resp, err = ac.client.Subreddit.TopPosts(ctx, sub, windowed)
	case domain.SortControversial:
		posts, resp, err = ac.client.Subreddit.ControversialPosts(ctx, sub, windowed)
	case domain.SortHot:
		posts, resp, err = ac.client.Subreddit.HotPosts(ctx, sub, &list)
	case domain.SortNew:
		posts, resp, err = ac.client.Subreddit.NewPosts(ctx, sub, &list)
	default:
		return domain.Listing{}, fmt.Errorf("unsupported sort order %q", facet.Sort)
	}
	if err != nil {
		return domain.Listing{}, fmt.Errorf("reddit api error: %w", err)
	}

	result := domain.Listing{Posts: make([]domain.Post, 0, len(posts))}
	if resp != nil {
		result.After = resp.After
	}
	for _, p := range posts {
		if p.Created == nil {
			return domain.Listing{}, fmt.Errorf("%w: created_utc (id %s)", domain.ErrMissingField, p.ID)
		}
		result.Posts = append(result.Posts, domain.Post{
			ID:          p.ID,
			Title:       p.Title,
			Body:        p.Body,
			URL:         p.URL,
			Author:      p.Author,
			Score:       p.Score,
			NumComments: p.NumberOfComments,
			Created:     p.Created.Time.UTC(),
			Subreddit:   p.SubredditName,
			Permalink:   p.Permalink,
			IsSelf:      p.IsSelfPost,
			IsVideo:     p.IsVideo,
			Over18:      p.NSFW,
			Spoiler:     p.Spoiler,
			Stickied:    p.Stickied,
		})
	}
	return result, nil
}
