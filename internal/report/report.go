// Package report turns aggregation results into named tables and renders
// them as terminal tables or CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Missing is printed in terminal tables for undefined values.
const Missing = "—"

// Table is a named output table. An empty cell means the value is undefined.
type Table struct {
	Name    string // file stem for CSV export, e.g. "win_ratio"
	Title   string
	Columns []string
	Rows    [][]string
}

// Append adds a row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func newTableWriter(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// Print renders t to w as a boxed table, preceded by its title.
func (t *Table) Print(w io.Writer) {
	if t.Title != "" {
		fmt.Fprintf(w, "\n%s\n", t.Title)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	render(w, t.Columns, t.Rows, Missing)
}

// PrintRaw renders arbitrary column/row data with every cell printed as is.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	render(w, cols, rows, "")
}

// render draws a boxed table. Empty cells become empty unless empty is set.
func render(w io.Writer, cols []string, rows [][]string, empty string) {
	table := newTableWriter(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			if v == "" && empty != "" {
				v = empty
			}
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

// WriteCSV writes the header and rows of t to w.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write %s rows: %w", t.Name, err)
	}
	return nil
}

// WriteCSVFile writes t to dir/<name>.csv and returns the path.
func WriteCSVFile(dir string, t *Table) (string, error) {
	path := filepath.Join(dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
