package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNDJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posts.ndjson")
	posts := []domain.Post{
		{ID: "a", Title: "first", NumComments: 120, Created: time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), Spoiler: true},
		{ID: "b", Title: "second", NumComments: 95, Created: time.Date(2020, 6, 7, 8, 9, 10, 0, time.UTC)},
	}

	require.NoError(t, WriteNDJSON(path, posts))

	got, skipped, err := ReadNDJSON(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	if diff := cmp.Diff(posts, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNDJSONSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.ndjson")
	content := `{"id":"a","num_comments":1}` + "\n" + "not json\n\n" + `{"id":"b"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, skipped, err := ReadNDJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestWriteJSONIndentsFourSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorted.json")
	require.NoError(t, WriteJSON(path, map[string]any{"Festival": "Techfest"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"Festival\": \"Techfest\"\n}\n", string(b))
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "raw.md")
	require.NoError(t, WriteText(path, "# Heading\nünïcode"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Heading\nünïcode", string(b))
}
