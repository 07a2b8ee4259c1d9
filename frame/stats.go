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
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// numeric returns the non-missing numeric cells as float64 values, in index
// order. Missing and non-numeric cells are skipped.
func (s *Series) numeric() []float64 {
	var xs []float64
	for _, c := range s.cells {
		if v, ok := c.Float64(); ok {
			xs = append(xs, v)
		}
	}
	return xs
}

// Count returns the number of non-missing cells.
func (s *Series) Count() int {
	var n int
	for _, c := range s.cells {
		if !c.IsMissing() {
			n++
		}
	}
	return n
}

// Sum returns the sum of the numeric cells; 0 when there are none.
func (s *Series) Sum() float64 { return floats.Sum(s.numeric()) }

// Mean returns the mean of the numeric cells; NaN when there are none.
func (s *Series) Mean() float64 { return stat.Mean(s.numeric(), nil) }

// StdDev returns the corrected sample standard deviation of the numeric
// cells; NaN for fewer than two of them.
func (s *Series) StdDev() float64 { return stat.StdDev(s.numeric(), nil) }

// Min returns the smallest numeric cell; NaN when there are none.
func (s *Series) Min() float64 {
	xs := s.numeric()
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

// Max returns the largest numeric cell; NaN when there are none.
func (s *Series) Max() float64 {
	xs := s.numeric()
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

// Quantile returns the p-th linearly interpolated quantile of the numeric
// cells, p in [0..1]; NaN when there are none.
func (s *Series) Quantile(p float64) float64 {
	xs := s.numeric()
	if len(xs) == 0 {
		return math.NaN()
	}
	sort.Float64s(xs)
	return stat.Quantile(p, stat.LinInterp, xs, nil)
}

var describeLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarizes the numeric columns of the Frame, one row per
// statistic: count of non-missing cells, mean, sample standard deviation,
// min, the linearly interpolated 25% / 50% / 75% quantiles, and max.
// Non-numeric columns are skipped. All cells are floats; a statistic that is
// undefined for a column, such as std of a single value, is missing.
func (f *Frame) Describe() *Frame {
	labels := make([]Label, len(describeLabels))
	for i, l := range describeLabels {
		labels[i] = StringLabel(l)
	}
	index := NewIndex(labels)
	d := &Frame{rowIndex: index}
	var names []Label
	for _, col := range f.cols {
		switch col.Dtype() {
		case Int64, Float64:
		default:
			continue
		}
		cells := []Cell{
			Float(float64(col.Count())),
			Float(col.Mean()),
			Float(col.StdDev()),
			Float(col.Min()),
			Float(col.Quantile(0.25)),
			Float(col.Quantile(0.5)),
			Float(col.Quantile(0.75)),
			Float(col.Max()),
		}
		names = append(names, StringLabel(col.name))
		d.cols = append(d.cols, &Series{name: col.name, cells: cells, index: index})
	}
	d.colIndex = NewIndex(names)
	return d
}

// samplePerm returns n distinct positions out of total, picked uniformly at
// random. The same seed always picks the same positions.
func samplePerm(total, n int, seed uint64) []int {
	if n < 0 {
		n = 0
	}
	if n > total {
		n = total
	}
	r := rand.New(rand.NewSource(seed))
	return r.Perm(total)[:n]
}

// Sample returns a new Series of n cells picked uniformly at random without
// replacement, with their labels.
func (s *Series) Sample(n int, seed uint64) *Series {
	perm := samplePerm(s.Len(), n, seed)
	labels := make([]Label, len(perm))
	cells := make([]Cell, len(perm))
	for i, p := range perm {
		labels[i] = s.index.labels[p]
		cells[i] = s.cells[p]
	}
	return &Series{name: s.name, cells: cells, index: NewIndex(labels)}
}

// Sample returns a new Frame of n rows picked uniformly at random without
// replacement, with their labels.
func (f *Frame) Sample(n int, seed uint64) *Frame {
	rows, _ := f.Shape()
	return f.reorder(samplePerm(rows, n, seed))
}
