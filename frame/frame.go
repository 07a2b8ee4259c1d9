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

// Package frame implements small labeled tables: ordered, named columns of
// single-typed cells sharing one row index. Tables are built from columns,
// flat rows, or sequences of JSON records, combine with label-aligned
// arithmetic, and export to CSV and aligned text.
package frame

import (
	"sort"

	"github.com/stockparfait/errors"
)

// Column is a named sequence of cells used to construct a Frame. A slice of
// Columns preserves the column order, which a Go map would not.
type Column struct {
	Name  string
	Cells []Cell
}

// Frame is an immutable table of named columns sharing a single row index:
// every column holds exactly one cell per index label. Methods never modify
// the receiver; "mutating" operations return new instances, so a Frame is
// safe for concurrent readers.
type Frame struct {
	cols     []*Series
	colIndex *Index // string labels of the columns, in order
	rowIndex *Index // shared by every column Series
}

// FromColumns creates a Frame from ordered columns over the default integer
// index. All columns must have the same number of cells; otherwise it returns
// a shape mismatch error naming the offending column, and no Frame is
// created.
func FromColumns(columns []Column) (*Frame, error) {
	var n int
	if len(columns) > 0 {
		n = len(columns[0].Cells)
	}
	return FromColumnsIndexed(columns, RangeIndex(n))
}

// FromColumnsIndexed creates a Frame from ordered columns and an explicit row
// index. Every column must have exactly index.Len() cells.
func FromColumnsIndexed(columns []Column, index *Index) (*Frame, error) {
	f := &Frame{rowIndex: index}
	names := make([]Label, len(columns))
	for i, col := range columns {
		if len(col.Cells) != index.Len() {
			return nil, errors.Reason(
				"shape mismatch: column %q has %d cells, expected %d",
				col.Name, len(col.Cells), index.Len())
		}
		names[i] = StringLabel(col.Name)
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		f.cols = append(f.cols, &Series{name: col.Name, cells: cells, index: index})
	}
	f.colIndex = NewIndex(names)
	return f, nil
}

// FromRows creates a Frame from flat rows and a parallel list of column
// names. Every row must have exactly len(names) values; otherwise it returns
// a shape mismatch error naming the offending row.
func FromRows(rows [][]Cell, names []string) (*Frame, error) {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Cells: make([]Cell, len(rows))}
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, errors.Reason(
				"shape mismatch: row %d has %d values, expected %d",
				r, len(row), len(names))
		}
		for c, cell := range row {
			columns[c].Cells[r] = cell
		}
	}
	return FromColumns(columns)
}

// FromRecords creates a Frame from a sequence of records, one row per record.
// The columns are the union of the record fields in the order they are first
// seen. A field absent from a record becomes the missing cell, which is not
// an error. Field values map to cells with CellOf.
func FromRecords(records []Record) *Frame {
	var names []string
	byName := map[string]int{}
	for _, rec := range records {
		for _, f := range rec.fields {
			if _, ok := byName[f.Name]; !ok {
				byName[f.Name] = len(names)
				names = append(names, f.Name)
			}
		}
	}
	cells := make([][]Cell, len(names))
	for i := range cells {
		cells[i] = make([]Cell, len(records))
	}
	for r, rec := range records {
		for _, f := range rec.fields {
			cells[byName[f.Name]][r] = CellOf(f.Value)
		}
	}
	index := RangeIndex(len(records))
	f := &Frame{rowIndex: index}
	labels := make([]Label, len(names))
	for i, name := range names {
		labels[i] = StringLabel(name)
		f.cols = append(f.cols, &Series{name: name, cells: cells[i], index: index})
	}
	f.colIndex = NewIndex(labels)
	return f
}

// Shape returns the number of rows and columns.
func (f *Frame) Shape() (rows, cols int) {
	return f.rowIndex.Len(), len(f.cols)
}

// Columns returns the column labels as an index.
func (f *Frame) Columns() *Index { return f.colIndex }

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.name
	}
	return names
}

// Index returns the row index shared by all columns.
func (f *Frame) Index() *Index { return f.rowIndex }

// Column returns the named column Series. For a duplicated name it returns
// the first column.
func (f *Frame) Column(name string) (*Series, bool) {
	i, ok := f.colIndex.Lookup(StringLabel(name))
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Dtypes returns the schema of the Frame: each column's name and inferred
// type, in column order.
func (f *Frame) Dtypes() Schema {
	s := make(Schema, len(f.cols))
	for i, col := range f.cols {
		s[i] = Field{Name: col.name, Type: col.Dtype()}
	}
	return s
}

// Values returns a row-major snapshot of the table data in index and column
// order. The snapshot is a fresh copy; modifying it does not affect the
// Frame.
func (f *Frame) Values() [][]Cell {
	rows := make([][]Cell, f.rowIndex.Len())
	for r := range rows {
		row := make([]Cell, len(f.cols))
		for c, col := range f.cols {
			row[c] = col.cells[r]
		}
		rows[r] = row
	}
	return rows
}

// Head returns a new Frame with the first n rows, or fewer if the Frame is
// shorter. The receiver is unchanged.
func (f *Frame) Head(n int) *Frame {
	index := f.rowIndex.Head(n)
	f2 := &Frame{colIndex: f.colIndex, rowIndex: index}
	for _, col := range f.cols {
		f2.cols = append(f2.cols, &Series{
			name: col.name, cells: col.cells[:index.Len()], index: index})
	}
	return f2
}

// Select returns a new Frame with only the named columns, in the given
// order, sharing the row index.
func (f *Frame) Select(names ...string) (*Frame, error) {
	f2 := &Frame{rowIndex: f.rowIndex}
	labels := make([]Label, len(names))
	for i, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return nil, errors.Reason("no column %q in the frame", name)
		}
		labels[i] = StringLabel(name)
		f2.cols = append(f2.cols, col)
	}
	f2.colIndex = NewIndex(labels)
	return f2, nil
}

// SortBy returns a new Frame with rows ordered by the named column using the
// cell ordering of Cell.Less: missing values first, then numbers, strings,
// booleans and timestamps. The sort is stable and the row labels travel with
// their rows.
func (f *Frame) SortBy(name string, descending bool) (*Frame, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, errors.Reason("no column %q in the frame", name)
	}
	perm := make([]int, f.rowIndex.Len())
	for i := range perm {
		perm[i] = i
	}
	less := func(i, j int) bool { return col.cells[perm[i]].Less(col.cells[perm[j]]) }
	if descending {
		less = func(i, j int) bool { return col.cells[perm[j]].Less(col.cells[perm[i]]) }
	}
	sort.SliceStable(perm, less)
	return f.reorder(perm), nil
}

// reorder builds a new Frame from the rows at the given positions, in order.
func (f *Frame) reorder(perm []int) *Frame {
	labels := make([]Label, len(perm))
	for i, p := range perm {
		labels[i] = f.rowIndex.labels[p]
	}
	index := NewIndex(labels)
	f2 := &Frame{colIndex: f.colIndex, rowIndex: index}
	for _, col := range f.cols {
		cells := make([]Cell, len(perm))
		for i, p := range perm {
			cells[i] = col.cells[p]
		}
		f2.cols = append(f2.cols, &Series{name: col.name, cells: cells, index: index})
	}
	return f2
}

// Copy makes a deep copy of the Frame.
func (f *Frame) Copy() *Frame {
	index := NewIndex(f.rowIndex.labels)
	f2 := &Frame{colIndex: f.colIndex, rowIndex: index}
	for _, col := range f.cols {
		cells := make([]Cell, len(col.cells))
		copy(cells, col.cells)
		f2.cols = append(f2.cols, &Series{name: col.name, cells: cells, index: index})
	}
	return f2
}

// Combine aligns two Frames and applies op cell by cell. Columns align by
// name and rows by label, both with the same union rule: the left side's
// labels in their original order, then the labels only the right side has,
// in their original order. A column or row present on one side only is
// filled with missing cells, never the lone values.
func (f *Frame) Combine(op Op, other *Frame) *Frame {
	colUnion := f.colIndex.Union(other.colIndex)
	rowUnion := f.rowIndex.Union(other.rowIndex)
	f2 := &Frame{colIndex: colUnion, rowIndex: rowUnion}
	for _, l := range colUnion.labels {
		name := l.String()
		lcol, lok := f.Column(name)
		rcol, rok := other.Column(name)
		var cells []Cell
		if lok && rok {
			cells = combineOn(op, rowUnion, lcol, rcol)
		} else {
			cells = make([]Cell, rowUnion.Len())
		}
		f2.cols = append(f2.cols, &Series{name: name, cells: cells, index: rowUnion})
	}
	return f2
}

// Add is f + other with labels aligned.
func (f *Frame) Add(other *Frame) *Frame { return f.Combine(Add, other) }

// Sub is f - other with labels aligned.
func (f *Frame) Sub(other *Frame) *Frame { return f.Combine(Sub, other) }

// Mul is f * other with labels aligned.
func (f *Frame) Mul(other *Frame) *Frame { return f.Combine(Mul, other) }

// Div is f / other with labels aligned.
func (f *Frame) Div(other *Frame) *Frame { return f.Combine(Div, other) }
