package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one report column. Numeric columns align right.
type column struct {
	title   string
	numeric bool
}

// report is a rounded go-pretty table with an optional totals footer. Header
// and footer keep their case so file names and counts read as typed.
type report struct {
	tw table.Writer
}

func newReport(columns ...column) *report {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignFooter: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return &report{tw: tw}
}

func (r *report) row(cells ...string) {
	r.tw.AppendRow(cellsRow(cells))
}

func (r *report) totals(cells ...string) {
	r.tw.AppendFooter(cellsRow(cells))
}

func (r *report) String() string {
	return r.tw.Render()
}

func cellsRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
