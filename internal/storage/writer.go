package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qepting91/reddit-harvester/internal/domain"
)

// WriteNDJSON writes one JSON object per post, truncating any previous file.
func WriteNDJSON(path string, posts []domain.Post) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, post := range posts {
		if err := enc.Encode(post); err != nil {
			return fmt.Errorf("encode post %s: %w", post.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadNDJSON loads posts written by WriteNDJSON. Lines that fail to decode
// are skipped and counted.
func ReadNDJSON(path string) (posts []domain.Post, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var p domain.Post
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			skipped++
			continue
		}
		posts = append(posts, p)
	}
	return posts, skipped, scanner.Err()
}

// WriteJSON writes v indented by four spaces.
func WriteJSON(path string, v any) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteText writes s as UTF-8.
func WriteText(path, s string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
