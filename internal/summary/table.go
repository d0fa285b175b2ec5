// Package summary prints the most discussed posts of a run as a table.
package summary

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/qepting91/reddit-harvester/internal/domain"
)

const titleWidth = 60

// Print renders up to top posts, in the order given, to w.
func Print(w io.Writer, posts []domain.Post, top int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "ID", "Title", "Comments", "Score", "Created"})

	for i, p := range posts {
		if i >= top {
			break
		}
		t.AppendRow(table.Row{
			i + 1,
			p.ID,
			text.Trim(p.Title, titleWidth),
			p.NumComments,
			p.Score,
			p.Created.UTC().Format("2006-01-02"),
		})
	}
	t.AppendFooter(table.Row{"", "", "Total posts", len(posts)})
	t.Render()
}
