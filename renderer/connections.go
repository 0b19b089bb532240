package renderer

import (
	"bytes"

	"github.com/etnz/pulse"
	md "github.com/nao1215/markdown"
)

// ConnectionResult is the outcome of one connection test.
type ConnectionResult struct {
	Name    string
	OK      bool
	Message string
}

// ConnectionsMarkdown renders connection test results in the given order.
func ConnectionsMarkdown(results []ConnectionResult) string {
	rows := make([]ConnectionResult, len(results))
	for i, r := range results {
		r.Name, r.Message = escape(r.Name), escape(r.Message)
		rows[i] = r
	}
	return renderTemplate("connections", "connections.md", rows)
}

// ExcelMarkdown renders the spreadsheet preview returned by the backend.
func ExcelMarkdown(p pulse.ExcelPreview) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Pré-visualização da Planilha")
	if p.Message != "" {
		doc.PlainText(p.Message)
		doc.LF()
	}
	if len(p.Columns) == 0 || len(p.Preview) == 0 {
		doc.PlainText("Nenhuma linha disponível.")
		return doc.String() + "\n"
	}
	table := md.TableSet{Header: make([]string, len(p.Columns))}
	for i, c := range p.Columns {
		table.Header[i] = escape(c)
	}
	for _, row := range p.Preview {
		cells := make([]string, len(p.Columns))
		for i, c := range p.Columns {
			cells[i] = cell(row, c)
		}
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)
	return doc.String()
}
