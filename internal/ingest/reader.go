package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/qepting91/reddit-harvester/internal/domain"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// LoadTargets reads a `subreddit,min_comments` CSV with a header row.
// Invalid rows are skipped; a blank or missing threshold uses defaultMin.
func LoadTargets(path string, defaultMin int) ([]domain.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTargets(f, defaultMin)
}

func ReadTargets(in io.Reader, defaultMin int) ([]domain.Target, error) {
	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(in))
	r.FieldsPerRecord = -1

	var targets []domain.Target
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return targets, err
		}
		line++
		if line == 1 {
			continue // Skip header
		}

		// Validation (Fail-Soft)
		sub := strings.TrimPrefix(strings.TrimSpace(record[0]), "r/")
		if !subNameRegex.MatchString(sub) {
			slog.Warn("Skipping invalid subreddit", "line", line, "value", record[0])
			continue
		}

		minComments := defaultMin
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil || n < 0 {
				slog.Warn("Skipping row with invalid min_comments", "line", line, "value", record[1])
				continue
			}
			minComments = n
		}

		targets = append(targets, domain.Target{
			Subreddit:   sub,
			MinComments: minComments,
		})
	}
	return targets, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
