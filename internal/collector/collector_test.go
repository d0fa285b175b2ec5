package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-harvester/internal/config"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewCollectorModes(t *testing.T) {
	src, err := NewCollector(config.Config{Mode: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, src)

	src, err = NewCollector(config.Config{Mode: "public", Credentials: config.Credentials{UserAgent: "ua"}})
	require.NoError(t, err)
	assert.IsType(t, &PublicClient{}, src)

	_, err = NewCollector(config.Config{Mode: "public"})
	assert.ErrorIs(t, err, config.ErrMissingCredentials)

	_, err = NewCollector(config.Config{Mode: "api"})
	assert.ErrorIs(t, err, config.ErrMissingCredentials)

	_, err = NewCollector(config.Config{Mode: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown COLLECTOR_MODE")
}

const listingPage = `{"data":{"after":"t3_next","children":[
	{"data":{"id":"a1","title":"first","selftext":"body","author":"alice","score":10,
		"num_comments":95,"created_utc":1588291200,"subreddit":"ADHD",
		"permalink":"/r/ADHD/comments/a1/","is_self":true,"is_video":false}},
	{"data":{"id":"a2","title":"second","author":"bob","score":3,
		"num_comments":4,"created_utc":1588377600.5,"subreddit":"ADHD","is_video":true}}
]}}`

func TestPublicClientFetchListing(t *testing.T) {
	var gotPath, gotUA string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	pc := newPublicClient(srv.URL, "harvester-test", rate.Inf)
	listing, err := pc.FetchListing(context.Background(), "ADHD",
		domain.Facet{Sort: domain.SortTop, Window: domain.WindowYear}, "t3_prev")
	require.NoError(t, err)

	assert.Equal(t, "/r/ADHD/top.json", gotPath)
	assert.Equal(t, "harvester-test", gotUA)
	assert.Equal(t, []string{"year"}, gotQuery["t"])
	assert.Equal(t, []string{"t3_prev"}, gotQuery["after"])
	assert.Equal(t, []string{"100"}, gotQuery["limit"])

	assert.Equal(t, "t3_next", listing.After)
	require.Len(t, listing.Posts, 2)
	assert.Equal(t, "a1", listing.Posts[0].ID)
	assert.Equal(t, 95, listing.Posts[0].NumComments)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), listing.Posts[0].Created)
	assert.True(t, listing.Posts[1].IsVideo)
}

func TestPublicClientUnwindowedSort(t *testing.T) {
	var hasWindow, hasAfter bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasWindow = r.URL.Query()["t"]
		_, hasAfter = r.URL.Query()["after"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"after":"","children":[]}}`))
	}))
	defer srv.Close()

	pc := newPublicClient(srv.URL, "ua", rate.Inf)
	listing, err := pc.FetchListing(context.Background(), "golang", domain.Facet{Sort: domain.SortNew}, "")
	require.NoError(t, err)
	assert.False(t, hasWindow)
	assert.False(t, hasAfter)
	assert.Empty(t, listing.Posts)
	assert.Empty(t, listing.After)
}

func TestPublicClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/private/hot.json" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"children":[{"data":{"id":"x","created_utc":1}}]}}`))
	}))
	defer srv.Close()

	pc := newPublicClient(srv.URL, "ua", rate.Inf)

	_, err := pc.FetchListing(context.Background(), "private", domain.Facet{Sort: domain.SortHot}, "")
	assert.ErrorContains(t, err, "403")

	_, err = pc.FetchListing(context.Background(), "broken", domain.Facet{Sort: domain.SortHot}, "")
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestMockClientPaginates(t *testing.T) {
	anchor := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mc := &MockClient{Now: func() time.Time { return anchor }}
	facet := domain.Facet{Sort: domain.SortNew}

	seen := map[string]bool{}
	after := ""
	pages := 0
	for {
		listing, err := mc.FetchListing(context.Background(), "golang", facet, after)
		require.NoError(t, err)
		pages++
		for _, p := range listing.Posts {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
			assert.False(t, p.Created.After(anchor))
		}
		if listing.After == "" {
			break
		}
		after = listing.After
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, mockListingSize)
}

const oauthListing = `{"kind":"Listing","data":{"after":"t3_b2","children":[
	{"kind":"t3","data":{"id":"b1","title":"video","url":"https://v.redd.it/xyz","author":"carol",
		"score":40,"num_comments":120,"created_utc":1609459200,"subreddit":"ADHD",
		"permalink":"/r/ADHD/comments/b1/","is_video":true,"over_18":true}},
	{"kind":"t3","data":{"id":"b2","title":"text","author":"dave","num_comments":7,
		"created_utc":1609545600,"subreddit":"ADHD","is_self":true}}
]}}`

type listingRequest struct {
	path  string
	query url.Values
	auth  string
}

func redditServer(t *testing.T, body string) (*httptest.Server, *[]listingRequest, *url.Values) {
	t.Helper()
	var requests []listingRequest
	var tokenForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token" {
			r.ParseForm()
			tokenForm = r.PostForm
			w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
			return
		}
		requests = append(requests, listingRequest{path: r.URL.Path, query: r.URL.Query(), auth: r.Header.Get("Authorization")})
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests, &tokenForm
}

func TestAPIClientReadonlyWithoutPassword(t *testing.T) {
	srv, requests, tokenForm := redditServer(t, oauthListing)

	ac, err := newAPIClient(config.Credentials{ClientID: "id", ClientSecret: "secret", UserAgent: "ua"},
		rate.Inf, reddit.WithBaseURL(srv.URL+"/"), reddit.WithTokenURL(srv.URL+"/token"))
	require.NoError(t, err)

	listing, err := ac.FetchListing(context.Background(), "ADHD", domain.Facet{Sort: domain.SortNew}, "t3_a0")
	require.NoError(t, err)

	assert.Nil(t, *tokenForm, "read-only client must not request a token")
	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/r/ADHD/new", got.path)
	assert.Empty(t, got.auth)
	assert.Equal(t, "t3_a0", got.query.Get("after"))
	assert.Equal(t, "100", got.query.Get("limit"))
	assert.False(t, got.query.Has("t"))

	assert.Equal(t, "t3_b2", listing.After)
	require.Len(t, listing.Posts, 2)
	first := listing.Posts[0]
	assert.Equal(t, "b1", first.ID)
	assert.Equal(t, 120, first.NumComments)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), first.Created)
	assert.True(t, first.IsVideo)
	assert.True(t, first.Over18)
	assert.False(t, listing.Posts[1].IsVideo)
	assert.True(t, listing.Posts[1].IsSelf)
}

func TestAPIClientPasswordGrant(t *testing.T) {
	srv, requests, tokenForm := redditServer(t, oauthListing)

	ac, err := newAPIClient(config.Credentials{
		ClientID: "id", ClientSecret: "secret", UserAgent: "ua", Username: "u", Password: "p",
	}, rate.Inf, reddit.WithBaseURL(srv.URL+"/"), reddit.WithTokenURL(srv.URL+"/token"))
	require.NoError(t, err)

	_, err = ac.FetchListing(context.Background(), "ADHD",
		domain.Facet{Sort: domain.SortControversial, Window: domain.WindowMonth}, "")
	require.NoError(t, err)

	assert.Equal(t, "password", tokenForm.Get("grant_type"))
	assert.Equal(t, "u", tokenForm.Get("username"))
	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/r/ADHD/controversial", got.path)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.Equal(t, "month", got.query.Get("t"))
	assert.False(t, got.query.Has("after"))
}

func TestAPIClientSortRouting(t *testing.T) {
	srv, requests, _ := redditServer(t, `{"kind":"Listing","data":{"children":[]}}`)
	ac, err := newAPIClient(config.Credentials{ClientID: "id", ClientSecret: "secret", UserAgent: "ua"},
		rate.Inf, reddit.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	for _, facet := range []domain.Facet{
		{Sort: domain.SortTop, Window: domain.WindowAll},
		{Sort: domain.SortHot},
	} {
		listing, err := ac.FetchListing(context.Background(), "golang", facet, "")
		require.NoError(t, err)
		assert.Empty(t, listing.Posts)
		assert.Empty(t, listing.After)
	}

	require.Len(t, *requests, 2)
	assert.Equal(t, "/r/golang/top", (*requests)[0].path)
	assert.Equal(t, "all", (*requests)[0].query.Get("t"))
	assert.Equal(t, "/r/golang/hot", (*requests)[1].path)
	assert.False(t, (*requests)[1].query.Has("t"))

	_, err = ac.FetchListing(context.Background(), "golang", domain.Facet{Sort: "rising"}, "")
	assert.ErrorContains(t, err, "unsupported sort order")
}

func TestAPIClientMissingCreated(t *testing.T) {
	srv, _, _ := redditServer(t, `{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"c1","num_comments":3}}]}}`)
	ac, err := newAPIClient(config.Credentials{ClientID: "id", ClientSecret: "secret", UserAgent: "ua"},
		rate.Inf, reddit.WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	_, err = ac.FetchListing(context.Background(), "ADHD", domain.Facet{Sort: domain.SortNew}, "")
	assert.ErrorIs(t, err, domain.ErrMissingField)
}
