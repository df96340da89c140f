package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mrlokans/criminaldb/internal/records"
	"github.com/mrlokans/criminaldb/internal/schema"
)

const nullText = "-"

func renderRecords(w io.Writer, columns []string, rows []records.Record) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"ID"}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, rec := range rows {
		row := table.Row{rec.ID}
		for _, v := range rec.Values {
			if v == nil {
				row = append(row, nullText)
				continue
			}
			row = append(row, *v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func renderCounts(w io.Writer, counts map[schema.Entity]int64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Entity", "Records"})
	for _, e := range schema.Entities() {
		t.AppendRow(table.Row{e, counts[e]})
	}
	t.Render()
}
