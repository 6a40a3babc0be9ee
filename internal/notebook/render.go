package notebook

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable writes t with a leading row-index column.
func RenderTable(w io.Writer, t Table) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))

	header := make([]any, 0, len(t.Header)+1)
	header = append(header, "")
	for _, h := range t.Header {
		header = append(header, h)
	}
	table.Header(header...)

	data := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		data[i] = make([]any, 0, len(row)+1)
		data[i] = append(data[i], strconv.Itoa(i))
		for _, cell := range row {
			data[i] = append(data[i], cell)
		}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("format table: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}
