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

// alignPair computes the outer union of the two series' indexes and combines
// their cells label by label: op where both sides have the label, missing
// where only one does. With equal indexes the combination is positional,
// which also keeps duplicate labels paired up. Runs in O(left.Len +
// right.Len) using the index lookup tables.
func alignPair(op Op, left, right *Series) (*Index, []Cell) {
	if left.index.Equal(right.index) {
		cells := make([]Cell, len(left.cells))
		for i := range left.cells {
			cells[i] = op(left.cells[i], right.cells[i])
		}
		return left.index, cells
	}
	union := left.index.Union(right.index)
	return union, combineOn(op, union, left, right)
}

// combineOn combines two series on a precomputed union index. Labels found on
// both sides pair up by their first occurrence; one-sided labels are left as
// the missing cell.
func combineOn(op Op, union *Index, left, right *Series) []Cell {
	cells := make([]Cell, union.Len())
	for i, l := range union.labels {
		li, lok := left.index.Lookup(l)
		ri, rok := right.index.Lookup(l)
		if lok && rok {
			cells[i] = op(left.cells[li], right.cells[ri])
		}
	}
	return cells
}
