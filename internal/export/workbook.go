package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/qepting91/reddit-harvester/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	PostsSheet     = "Posts"
	defaultSheet   = "Sheet1"
	maxColumnWidth = 50
	// TimestampLayout is the filename timestamp, YYYYMMDD_HHMMSS.
	TimestampLayout = "20060102_150405"
	createdLayout   = "2006-01-02 15:04:05"
)

var ErrNothingToExport = errors.New("no data to save")

// PostColumns is the fixed header of the posts sheet.
var PostColumns = []string{
	"id", "title", "selftext", "url", "author", "score", "num_comments",
	"created_utc", "subreddit", "permalink", "is_self", "is_video",
	"over_18", "spoiler", "stickied",
}

// Workbook writes timestamped xlsx files into Dir.
type Workbook struct {
	Dir    string
	Prefix string
	Label  string
	Now    func() time.Time
	Logger *slog.Logger
}

// Stamp is the timestamp used in every file name written by w.
func (w Workbook) Stamp() string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return now().Format(TimestampLayout)
}

// WritePosts writes the collection to <Dir>/<Prefix>_<Label><stamp>.xlsx.
// An empty collection writes nothing and returns ErrNothingToExport.
func (w Workbook) WritePosts(posts []domain.Post) (string, error) {
	if len(posts) == 0 {
		w.logger().Info("No data to save. Skipping Excel file creation.")
		return "", ErrNothingToExport
	}

	rows := make([][]any, len(posts))
	for i, p := range posts {
		rows[i] = postRow(p)
	}

	name := fmt.Sprintf("%s_%s%s.xlsx", w.Prefix, w.Label, w.Stamp())
	path, err := w.write(name, PostsSheet, PostColumns, rows)
	if err != nil {
		return "", err
	}
	w.logger().Info("Reddit data saved to Excel", "path", path, "rows", len(rows))
	return path, nil
}

// WriteRecords writes an arbitrary table to <Dir>/<name> on the default sheet.
func (w Workbook) WriteRecords(name string, columns []string, rows [][]any) (string, error) {
	path, err := w.write(name, defaultSheet, columns, rows)
	if err != nil {
		return "", err
	}
	w.logger().Info("Formatted data saved to Excel", "path", path, "rows", len(rows))
	return path, nil
}

func (w Workbook) write(name, sheet string, columns []string, rows [][]any) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.Dir, name)

	f := excelize.NewFile()
	defer f.Close()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return "", err
		}
	}

	widths := make([]int, len(columns))
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
		for i, v := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(fmt.Sprint(v)))
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func (w Workbook) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func postRow(p domain.Post) []any {
	return []any{
		p.ID, p.Title, p.Body, p.URL, p.Author, p.Score, p.NumComments,
		p.Created.UTC().Format(createdLayout), p.Subreddit, p.Permalink,
		p.IsSelf, p.IsVideo, p.Over18, p.Spoiler, p.Stickied,
	}
}

// ReadRows returns every row of sheet, header included.
func ReadRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(sheet)
}

// ReadPostIDs returns the id column of a posts workbook in row order.
func ReadPostIDs(path string) ([]string, error) {
	rows, err := ReadRows(path, PostsSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %s is empty", path, PostsSheet)
	}
	ids := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		ids = append(ids, row[0])
	}
	return ids, nil
}
