package output

import (
	"fmt"
	"strings"

	"github.com/mynameiscfed/termtables"

	"github.com/endorses/pcapview/internal/pkg/types"
)

// RenderRows renders packet rows as a text table.
// The footer reports how many of total rows are shown.
func RenderRows(title string, rows []types.PacketRow, total int) string {
	table := termtables.CreateTable()
	if title != "" {
		table.AddTitle(title)
	}

	headers := make([]interface{}, len(types.ColumnHeaders))
	for i, h := range types.ColumnHeaders {
		headers[i] = h
	}
	table.AddHeaders(headers...)

	for _, row := range rows {
		cols := row.Columns()
		cells := make([]interface{}, len(cols))
		for i, c := range cols {
			cells[i] = c
		}
		table.AddRow(cells...)
	}

	return strings.TrimRight(table.Render(), "\n") + "\n" +
		fmt.Sprintf("%d of %d packets shown\n", len(rows), total)
}

// RenderKeyValues renders label/value pairs as a two-column table
func RenderKeyValues(title string, pairs [][2]string) string {
	table := termtables.CreateTable()
	if title != "" {
		table.AddTitle(title)
	}
	for _, p := range pairs {
		table.AddRow(p[0], p[1])
	}
	return table.Render()
}
