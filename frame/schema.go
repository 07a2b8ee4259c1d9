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

import "strings"

// DType is the inferred element type of a column.
type DType string

// Column types reported by Frame.Dtypes and Series.Dtype.
const (
	Empty    DType = "empty"   // no values at all
	Int64    DType = "int64"   // integers with no missing values
	Float64  DType = "float64" // floats, or integers with missing values
	Text     DType = "text"    // strings
	Boolean  DType = "bool"    // booleans with no missing values
	TimeType DType = "time"    // timestamps
	Object   DType = "object"  // mixed value kinds
)

// DTypeOf infers the narrowest common type of a sequence of cells. An integer
// column containing missing values is promoted to float64, so the missing
// sentinel keeps a numeric representation; a float among integers promotes
// the same way. Booleans with missing values and any mix of value kinds
// degrade to object.
func DTypeOf(cells []Cell) DType {
	var missing, ints, floats, strs, bools, times int
	for _, c := range cells {
		switch c.Kind() {
		case KindInt:
			ints++
		case KindFloat:
			floats++
		case KindString:
			strs++
		case KindBool:
			bools++
		case KindTime:
			times++
		default:
			missing++
		}
	}
	kinds := 0
	for _, n := range []int{ints + floats, strs, bools, times} {
		if n > 0 {
			kinds++
		}
	}
	switch {
	case kinds == 0:
		return Empty
	case kinds > 1:
		return Object
	case ints+floats > 0:
		if floats > 0 || missing > 0 {
			return Float64
		}
		return Int64
	case strs > 0:
		return Text
	case times > 0:
		return TimeType
	}
	if missing > 0 {
		return Object
	}
	return Boolean
}

// Field describes a single column: its name and inferred type.
type Field struct {
	Name string
	Type DType
}

// Schema describes the columns of a Frame, in column order.
type Schema []Field

// Equal tests two schemas for exact equality, including the field ordering.
func (s Schema) Equal(s2 Schema) bool {
	if len(s) != len(s2) {
		return false
	}
	for i, f := range s {
		if f != s2[i] {
			return false
		}
	}
	return true
}

// SubsetOf tests if self is a subset of the other schema, ignoring the field
// order.
func (s Schema) SubsetOf(s2 Schema) bool {
	m := make(map[string]DType)
	for _, f := range s2 {
		m[f.Name] = f.Type
	}
	for _, f := range s {
		if tp2, ok := m[f.Name]; !ok || f.Type != tp2 {
			return false
		}
	}
	return true
}

// MapFields creates a map of {field name -> field index} in the schema.
func (s Schema) MapFields() map[string]int {
	res := make(map[string]int)
	for i, f := range s {
		res[f.Name] = i
	}
	return res
}

// String prints a string representation of the schema.
func (s Schema) String() string {
	fields := []string{}
	for _, f := range s {
		fields = append(fields, f.Name+": "+string(f.Type))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}
