package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/qepting91/reddit-harvester/internal/domain"
)

// mockListingSize is how many posts every mock facet serves in total.
const mockListingSize = 250

// MockClient implements domain.Source but returns fake data
type MockClient struct {
	Latency time.Duration
	Now     func() time.Time
}

func NewMockClient() *MockClient {
	return &MockClient{Latency: 500 * time.Millisecond, Now: time.Now}
}

func (mc *MockClient) FetchListing(ctx context.Context, sub string, facet domain.Facet, after string) (domain.Listing, error) {
	// Simulate network latency
	select {
	case <-ctx.Done():
		return domain.Listing{}, ctx.Err()
	case <-time.After(mc.Latency):
	}

	offset := 0
	if after != "" {
		n, err := strconv.Atoi(after)
		if err != nil {
			return domain.Listing{}, fmt.Errorf("mock cursor %q: %w", after, err)
		}
		offset = n
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s", sub, facet)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	// advance the generator so pages do not repeat
	for i := 0; i < offset; i++ {
		rng.Int()
	}

	now := mc.Now().UTC()
	var listing domain.Listing
	end := min(offset+pageSize, mockListingSize)
	for i := offset; i < end; i++ {
		id := fmt.Sprintf("mock_%s_%d", sub, i)
		listing.Posts = append(listing.Posts, domain.Post{
			ID:          id,
			Title:       fmt.Sprintf("[%s] Simulated discussion #%d", sub, i),
			Body:        "simulated body text",
			URL:         "http://localhost/mock-url",
			Author:      "simulated_user",
			Score:       rng.Intn(5000),
			NumComments: rng.Intn(500),
			Created:     now.Add(-time.Duration(i) * 36 * time.Hour),
			Subreddit:   sub,
			Permalink:   fmt.Sprintf("/r/%s/comments/%s/", sub, id),
			IsSelf:      true,
		})
	}
	if end < mockListingSize {
		listing.After = strconv.Itoa(end)
	}
	return listing, nil
}
