package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrMissingField = errors.New("missing required field")

// RawPost mirrors the reddit submission JSON shared by the public listing
// endpoint and pushshift-style search. Required fields are pointers so an
// absent key can be told apart from a zero value.
type RawPost struct {
	ID          *string  `json:"id"`
	Title       string   `json:"title"`
	Selftext    string   `json:"selftext"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	Score       int      `json:"score"`
	NumComments *int     `json:"num_comments"`
	CreatedUTC  *float64 `json:"created_utc"`
	Subreddit   string   `json:"subreddit"`
	Permalink   string   `json:"permalink"`
	IsSelf      bool     `json:"is_self"`
	IsVideo     bool     `json:"is_video"`
	Over18      bool     `json:"over_18"`
	Spoiler     bool     `json:"spoiler"`
	Stickied    bool     `json:"stickied"`
}

// Post converts the record, failing on the first missing required field.
func (r RawPost) Post() (Post, error) {
	switch {
	case r.ID == nil || *r.ID == "":
		return Post{}, fmt.Errorf("%w: id", ErrMissingField)
	case r.CreatedUTC == nil:
		return Post{}, fmt.Errorf("%w: created_utc (id %s)", ErrMissingField, *r.ID)
	case r.NumComments == nil:
		return Post{}, fmt.Errorf("%w: num_comments (id %s)", ErrMissingField, *r.ID)
	}

	return Post{
		ID:          *r.ID,
		Title:       r.Title,
		Body:        r.Selftext,
		URL:         r.URL,
		Author:      r.Author,
		Score:       r.Score,
		NumComments: *r.NumComments,
		Created:     EpochToTime(*r.CreatedUTC),
		Subreddit:   r.Subreddit,
		Permalink:   r.Permalink,
		IsSelf:      r.IsSelf,
		IsVideo:     r.IsVideo,
		Over18:      r.Over18,
		Spoiler:     r.Spoiler,
		Stickied:    r.Stickied,
	}, nil
}

// EpochToTime converts reddit's fractional epoch seconds to a UTC time.
func EpochToTime(sec float64) time.Time {
	whole := int64(sec)
	frac := int64((sec - float64(whole)) * float64(time.Second))
	return time.Unix(whole, frac).UTC()
}

// YearBounds returns [Jan 1 startYear 00:00:00, Dec 31 endYear 23:59:59] in UTC.
func YearBounds(startYear, endYear int) (time.Time, time.Time) {
	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}
