package collector

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

const publicBaseURL = "https://www.reddit.com"

type PublicClient struct {
	http    *resty.Client
	limiter *rate.Limiter
}

type redditJSONResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data domain.RawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	return newPublicClient(publicBaseURL, userAgent, rate.Every(2*time.Second)), nil
}

func newPublicClient(baseURL, userAgent string, every rate.Limit) *PublicClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("User-Agent", userAgent)

	return &PublicClient{
		http: client,
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter: rate.NewLimiter(every, 1),
	}
}

func (pc *PublicClient) FetchListing(ctx context.Context, sub string, facet domain.Facet, after string) (domain.Listing, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return domain.Listing{}, err
	}

	params := map[string]string{
		"limit":    strconv.Itoa(pageSize),
		"raw_json": "1",
	}
	if after != "" {
		params["after"] = after
	}
	if facet.Window != domain.WindowNone {
		params["t"] = string(facet.Window)
	}

	var rResp redditJSONResponse
	resp, err := pc.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"sub": sub, "sort": string(facet.Sort)}).
		SetQueryParams(params).
		SetResult(&rResp).
		Get("/r/{sub}/{sort}.json")
	if err != nil {
		return domain.Listing{}, err
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.Listing{}, fmt.Errorf("reddit public access status: %d", resp.StatusCode())
	}

	listing := domain.Listing{After: rResp.Data.After}
	for _, child := range rResp.Data.Children {
		p, err := child.Data.Post()
		if err != nil {
			return domain.Listing{}, err
		}
		listing.Posts = append(listing.Posts, p)
	}
	return listing, nil
}
