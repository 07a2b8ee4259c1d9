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
	"strconv"
	"time"
)

// Label is a row or column label: an integer, a string, or a timestamp.
// Labels are comparable values and can be used as map keys; a timestamp label
// compares by its UTC instant with nanosecond precision. Labels identify rows
// by value, never by position.
type Label struct {
	kind Kind
	num  int64
	str  string
}

// IntLabel creates an integer label.
func IntLabel(v int64) Label { return Label{kind: KindInt, num: v} }

// StringLabel creates a string label.
func StringLabel(s string) Label { return Label{kind: KindString, str: s} }

// TimeLabel creates a timestamp label.
func TimeLabel(t time.Time) Label { return Label{kind: KindTime, num: t.UnixNano()} }

// Kind of the label value.
func (l Label) Kind() Kind { return l.kind }

// String representation of the label.
func (l Label) String() string {
	switch l.kind {
	case KindInt:
		return strconv.FormatInt(l.num, 10)
	case KindString:
		return l.str
	case KindTime:
		return time.Unix(0, l.num).UTC().Format(time.RFC3339)
	}
	return ""
}

// Index is an immutable ordered sequence of labels with a reverse lookup
// table built at construction. Labels may repeat; Lookup always returns the
// first occurrence. An Index is never modified after construction and is safe
// to share between containers and across goroutines.
type Index struct {
	labels []Label
	pos    map[Label]int
}

// NewIndex creates an index from the given labels. The slice is copied.
func NewIndex(labels []Label) *Index {
	cp := make([]Label, len(labels))
	copy(cp, labels)
	return &Index{labels: cp, pos: buildPos(cp)}
}

// RangeIndex creates the default index: dense integer labels 0..n-1.
func RangeIndex(n int) *Index {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = IntLabel(int64(i))
	}
	return &Index{labels: labels, pos: buildPos(labels)}
}

func buildPos(labels []Label) map[Label]int {
	pos := make(map[Label]int, len(labels))
	for i, l := range labels {
		if _, ok := pos[l]; !ok {
			pos[l] = i
		}
	}
	return pos
}

// Len is the number of labels.
func (ix *Index) Len() int { return len(ix.labels) }

// At returns the label at position i.
func (ix *Index) At(i int) Label { return ix.labels[i] }

// Labels returns a copy of the labels in order. The caller may freely modify
// the result.
func (ix *Index) Labels() []Label {
	cp := make([]Label, len(ix.labels))
	copy(cp, ix.labels)
	return cp
}

// Lookup returns the position of the first occurrence of the label.
func (ix *Index) Lookup(l Label) (int, bool) {
	i, ok := ix.pos[l]
	return i, ok
}

// IsUnique tests that no label repeats. An empty index is unique.
func (ix *Index) IsUnique() bool { return len(ix.pos) == len(ix.labels) }

// Equal tests two indexes for the same labels in the same order.
func (ix *Index) Equal(ix2 *Index) bool {
	if len(ix.labels) != len(ix2.labels) {
		return false
	}
	for i, l := range ix.labels {
		if l != ix2.labels[i] {
			return false
		}
	}
	return true
}

// Union merges two indexes: all labels of ix in their original order,
// followed by the labels of ix2 that are not in ix, in their original order.
// It runs in O(Len + ix2.Len) using the lookup tables.
func (ix *Index) Union(ix2 *Index) *Index {
	labels := make([]Label, 0, len(ix.labels)+len(ix2.labels))
	labels = append(labels, ix.labels...)
	for _, l := range ix2.labels {
		if _, ok := ix.pos[l]; !ok {
			labels = append(labels, l)
		}
	}
	return &Index{labels: labels, pos: buildPos(labels)}
}

// Head returns a new index of the first n labels, or fewer if the index is
// shorter.
func (ix *Index) Head(n int) *Index {
	if n < 0 {
		n = 0
	}
	if n > len(ix.labels) {
		n = len(ix.labels)
	}
	return NewIndex(ix.labels[:n])
}
