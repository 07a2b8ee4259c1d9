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
	"github.com/stockparfait/errors"
)

// Series is an immutable named sequence of cells aligned with an index: the
// i-th cell belongs to the i-th label. Methods never modify the receiver;
// value and structure changes return new instances, so a Series is safe for
// concurrent readers.
type Series struct {
	name  string
	cells []Cell
	index *Index
}

// NewSeries creates a new Series. A nil index stands for the default
// RangeIndex of the same length. The cells are copied. It panics if the
// number of cells differs from the index length.
func NewSeries(name string, cells []Cell, index *Index) *Series {
	if index == nil {
		index = RangeIndex(len(cells))
	}
	if len(cells) != index.Len() {
		panic(errors.Reason("len(cells) [%d] != index length [%d]",
			len(cells), index.Len()))
	}
	cp := make([]Cell, len(cells))
	copy(cp, cells)
	return &Series{name: name, cells: cp, index: index}
}

// Name of the Series.
func (s *Series) Name() string { return s.name }

// Len is the number of cells, always equal to the index length.
func (s *Series) Len() int { return len(s.cells) }

// Index of the Series.
func (s *Series) Index() *Index { return s.index }

// Cells returns a copy of the cell values in index order.
func (s *Series) Cells() []Cell {
	cp := make([]Cell, len(s.cells))
	copy(cp, s.cells)
	return cp
}

// At returns the cell at position i.
func (s *Series) At(i int) Cell { return s.cells[i] }

// Get returns the cell at the first occurrence of the label.
func (s *Series) Get(l Label) (Cell, bool) {
	i, ok := s.index.Lookup(l)
	if !ok {
		return Missing(), false
	}
	return s.cells[i], true
}

// WithAt returns a new Series with the cell at position i replaced. It panics
// if i is out of range.
func (s *Series) WithAt(i int, c Cell) *Series {
	if i < 0 || i >= len(s.cells) {
		panic(errors.Reason("position %d out of range [0..%d)", i, len(s.cells)))
	}
	cells := s.Cells()
	cells[i] = c
	return &Series{name: s.name, cells: cells, index: s.index}
}

// With returns a new Series with the cell at the label's first occurrence
// replaced. A label not present in the index is an error, not an append.
func (s *Series) With(l Label, c Cell) (*Series, error) {
	i, ok := s.index.Lookup(l)
	if !ok {
		return nil, errors.Reason("label %s is not in the index", l)
	}
	return s.WithAt(i, c), nil
}

// Rename returns a new Series with a different name sharing the same cells
// and index.
func (s *Series) Rename(name string) *Series {
	return &Series{name: name, cells: s.cells, index: s.index}
}

// Head returns a new Series of the first n cells, or fewer if the Series is
// shorter. The receiver is unchanged.
func (s *Series) Head(n int) *Series {
	if n < 0 {
		n = 0
	}
	if n > len(s.cells) {
		n = len(s.cells)
	}
	return &Series{name: s.name, cells: s.cells[:n], index: s.index.Head(n)}
}

// Copy makes a deep copy of the Series.
func (s *Series) Copy() *Series {
	return NewSeries(s.name, s.cells, s.index)
}

// Dtype infers the column type of the cells.
func (s *Series) Dtype() DType { return DTypeOf(s.cells) }

// Combine aligns self with another Series by label and applies op to the
// matched cells. The result's index is the union of the two indexes: the
// labels of s in their original order, then the labels appearing only in
// other, in their original order. A label present on one side only yields
// the missing cell, never the lone value. The result keeps the name when
// both series share it, and drops it otherwise.
func (s *Series) Combine(op Op, other *Series) *Series {
	name := s.name
	if other.name != s.name {
		name = ""
	}
	index, cells := alignPair(op, s, other)
	return &Series{name: name, cells: cells, index: index}
}

// Add is s + other aligned by label.
func (s *Series) Add(other *Series) *Series { return s.Combine(Add, other) }

// Sub is s - other aligned by label.
func (s *Series) Sub(other *Series) *Series { return s.Combine(Sub, other) }

// Mul is s * other aligned by label.
func (s *Series) Mul(other *Series) *Series { return s.Combine(Mul, other) }

// Div is s / other aligned by label.
func (s *Series) Div(other *Series) *Series { return s.Combine(Div, other) }
