package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrMarkdownNotFound = errors.New("markdown not found")

// Firecrawl turns a web page into LLM-ready markdown.
type Firecrawl struct {
	http *resty.Client
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown *string `json:"markdown"`
	} `json:"data"`
}

func NewFirecrawl(baseURL, apiKey string) (*Firecrawl, error) {
	if apiKey == "" {
		return nil, errors.New("FIRECRAWL_API_KEY is not set")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(2*time.Minute).
		SetAuthToken(apiKey)
	return &Firecrawl{http: client}, nil
}

// Scrape returns the page at url as markdown.
func (f *Firecrawl) Scrape(ctx context.Context, url string) (string, error) {
	var out scrapeResponse
	resp, err := f.http.R().
		SetContext(ctx).
		SetBody(scrapeRequest{URL: url, Formats: []string{"markdown"}}).
		SetResult(&out).
		SetError(&out).
		Post("/v1/scrape")
	if err != nil {
		return "", fmt.Errorf("firecrawl request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("firecrawl status %d: %s", resp.StatusCode(), msg)
	}
	if out.Data.Markdown == nil {
		return "", ErrMarkdownNotFound
	}
	return *out.Data.Markdown, nil
}
