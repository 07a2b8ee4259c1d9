// Copyright 2025 QuakeFrame

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

// Params are parameters for CSV export or pretty-printing of Frame data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// rowStrings renders row i as export text, one string per column.
func (f *Frame) rowStrings(i int) []string {
	row := make([]string, len(f.cols))
	for c, col := range f.cols {
		row[c] = col.cells[i].String()
	}
	return row
}

// WriteCSV writes the Frame to w in CSV format: a header line of the column
// names followed by one line per row, in index order. Row labels are not
// written. Missing cells become empty fields.
func (f *Frame) WriteCSV(w io.Writer, p Params) error {
	if len(f.cols) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if !p.NoHeader {
		if err := cw.Write(f.ColumnNames()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	rows, _ := f.Shape()
	for i := 0; i < rows; i++ {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := cw.Write(f.rowStrings(i)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the Frame as a text formatted for ease of reading.
func (f *Frame) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	if len(f.cols) == 0 {
		return nil
	}
	widths := make([]int, len(f.cols))
	update := func(row []string) {
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	dashes := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('-')
		}
		return string(b)
	}

	dashedRow := func() []string {
		row := make([]string, len(widths))
		for i, w := range widths {
			row[i] = dashes(w)
		}
		return row
	}

	rows, _ := f.Shape()
	if p.Rows > 0 && p.Rows < rows {
		rows = p.Rows
	}

	if !p.NoHeader {
		update(f.ColumnNames())
	}
	for i := 0; i < rows; i++ {
		update(f.rowStrings(i))
	}

	if !p.NoHeader {
		if err := write(f.ColumnNames()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashedRow()); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i := 0; i < rows; i++ {
		if err := write(f.rowStrings(i)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}

// ParseCell converts CSV text back to a Cell. The empty string is the
// missing cell; then integer, float, RFC 3339 timestamp and the literals
// "true" / "false" are tried in that order, and anything else is a string.
func ParseCell(s string) Cell {
	if s == "" {
		return Missing()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(x)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Time(t)
	}
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(s)
}

// ReadCSV reads a CSV table with a header line into a Frame over the default
// integer index. Cells are inferred with ParseCell, and the column dtypes
// follow from the usual promotion rules.
func ReadCSV(r io.Reader) (*Frame, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV")
	}
	if len(rows) == 0 {
		return nil, errors.Reason("no header line in CSV input")
	}
	header := rows[0]
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name, Cells: make([]Cell, len(rows)-1)}
	}
	for r, row := range rows[1:] {
		for c, s := range row {
			columns[c].Cells[r] = ParseCell(s)
		}
	}
	return FromColumns(columns)
}
