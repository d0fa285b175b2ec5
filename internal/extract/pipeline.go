package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"

	"github.com/qepting91/reddit-harvester/internal/export"
	"github.com/qepting91/reddit-harvester/internal/storage"
)

// Scraper fetches a page as markdown.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Pipeline is scrape → raw markdown file → LLM extraction → json and xlsx.
type Pipeline struct {
	Scraper   Scraper
	Extractor *Extractor
	Fields    []string
	Workbook  export.Workbook
	Logger    *slog.Logger
}

// Result lists the files a run produced.
type Result struct {
	RawPath   string
	JSONPath  string
	ExcelPath string
	Data      any
}

func (p *Pipeline) Run(ctx context.Context, url string) (Result, error) {
	stamp := p.Workbook.Stamp()
	dir := p.Workbook.Dir
	fields := p.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}

	raw, err := p.Scraper.Scrape(ctx, url)
	if err != nil {
		return Result{}, err
	}

	res := Result{RawPath: filepath.Join(dir, fmt.Sprintf("rawData_%s.md", stamp))}
	if err := storage.WriteText(res.RawPath, raw); err != nil {
		return Result{}, fmt.Errorf("save raw data: %w", err)
	}
	p.Logger.Info("Raw Data saved", "path", res.RawPath)

	res.Data, err = p.Extractor.Extract(ctx, raw, fields)
	if err != nil {
		return res, err
	}

	res.JSONPath = filepath.Join(dir, fmt.Sprintf("sorted_data_%s.json", stamp))
	if err := storage.WriteJSON(res.JSONPath, res.Data); err != nil {
		return res, fmt.Errorf("save formatted data: %w", err)
	}
	p.Logger.Info("Formatted data saved", "path", res.JSONPath)

	columns, rows := Table(res.Data, fields)
	res.ExcelPath, err = p.Workbook.WriteRecords(fmt.Sprintf("sorted_data_%s.xlsx", stamp), columns, rows)
	if err != nil {
		return res, err
	}
	return res, nil
}

// valueColumn holds non-object rows.
const valueColumn = "value"

// Table flattens a decoded JSON value into rows. A single-key object is
// unwrapped first; an object becomes one row and an array one row per
// element. Columns are the requested fields that occur, then any other keys
// in sorted order.
func Table(data any, fields []string) ([]string, [][]any) {
	if obj, ok := data.(map[string]any); ok && len(obj) == 1 {
		for _, v := range obj {
			data = v
		}
	}

	var records []any
	switch v := data.(type) {
	case []any:
		records = v
	default:
		records = []any{v}
	}

	present := map[string]bool{}
	for _, rec := range records {
		if obj, ok := rec.(map[string]any); ok {
			for k := range obj {
				present[k] = true
			}
		} else {
			present[valueColumn] = true
		}
	}

	var columns, extra []string
	for _, f := range fields {
		if present[f] && !slices.Contains(columns, f) {
			columns = append(columns, f)
		}
	}
	for k := range present {
		if !slices.Contains(columns, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	columns = append(columns, extra...)

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(columns))
		obj, isObj := rec.(map[string]any)
		for i, col := range columns {
			switch {
			case isObj:
				row[i] = cell(obj[col])
			case col == valueColumn:
				row[i] = cell(rec)
			default:
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func cell(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return v
	}
}
