package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixedWorkbook(dir string) Workbook {
	return Workbook{
		Dir:    dir,
		Prefix: "reddit_data",
		Label:  "ADHD",
		Now:    func() time.Time { return time.Date(2024, 10, 15, 9, 30, 5, 0, time.Local) },
		Logger: slog.New(slog.DiscardHandler),
	}
}

func samplePosts() []domain.Post {
	return []domain.Post{
		{ID: "zz9", Title: "most discussed", NumComments: 500, Score: 1200, Author: "alice",
			Created: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), Subreddit: "ADHD", IsSelf: true},
		{ID: "aa1", Title: "second", NumComments: 300,
			Created: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Over18: true},
		{ID: "mm5", Title: "third", NumComments: 95,
			Created: time.Date(2019, 7, 8, 9, 10, 11, 0, time.UTC)},
	}
}

func TestWritePostsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	wb := fixedWorkbook(dir)

	path, err := wb.WritePosts(samplePosts())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reddit_data_ADHD20241015_093005.xlsx"), path)

	ids, err := ReadPostIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"zz9", "aa1", "mm5"}, ids)

	rows, err := ReadRows(path, PostsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, PostColumns, rows[0])
	assert.Equal(t, "2021-03-04 05:06:07", rows[1][7])
	assert.Equal(t, "500", rows[1][6])
}

func TestWritePostsEmptyIsNoop(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")

	path, err := fixedWorkbook(dir).WritePosts(nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Empty(t, path)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "no directory or file should be created")
}

func TestColumnWidthsAreCapped(t *testing.T) {
	posts := samplePosts()
	posts[0].Body = strings.Repeat("x", 400)
	posts[0].URL = "https://example.com"

	path, err := fixedWorkbook(t.TempDir()).WritePosts(posts)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	body, err := f.GetColWidth(PostsSheet, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(maxColumnWidth), body)

	url, err := f.GetColWidth(PostsSheet, "D")
	require.NoError(t, err)
	assert.Equal(t, float64(len("https://example.com")+2), url)

	id, err := f.GetColWidth(PostsSheet, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(5), id)
}

func TestWriteRecords(t *testing.T) {
	wb := fixedWorkbook(t.TempDir())
	path, err := wb.WriteRecords("sorted_data_x.xlsx", []string{"Festival", "Year"}, [][]any{
		{"Techfest", 2023},
		{"Codeathon", "2024"},
	})
	require.NoError(t, err)

	rows, err := ReadRows(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Festival", "Year"},
		{"Techfest", "2023"},
		{"Codeathon", "2024"},
	}, rows)
}
