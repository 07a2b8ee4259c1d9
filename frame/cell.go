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
	"strconv"
	"time"
)

// Kind identifies which value a Cell holds. The zero value is KindMissing.
type Kind uint8

// Supported cell kinds.
const (
	KindMissing Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindTime
)

// String representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	}
	return "unknown"
}

// Cell is a single table value which is a union of an integer, a float, a
// string, a boolean, a timestamp, or the missing value sentinel. The zero
// value is the missing sentinel.
type Cell struct {
	kind Kind
	num  int64
	fnum float64
	str  string
	b    bool
	t    time.Time
}

// Missing returns the missing value sentinel.
func Missing() Cell { return Cell{} }

// Int creates an integer Cell.
func Int(v int64) Cell { return Cell{kind: KindInt, num: v} }

// Float creates a float Cell. NaN collapses to the missing sentinel, so the
// unknown value has a single representation.
func Float(v float64) Cell {
	if math.IsNaN(v) {
		return Missing()
	}
	return Cell{kind: KindFloat, fnum: v}
}

// String creates a string Cell.
func String(s string) Cell { return Cell{kind: KindString, str: s} }

// Bool creates a boolean Cell.
func Bool(b bool) Cell { return Cell{kind: KindBool, b: b} }

// Time creates a timestamp Cell. The instant is stored in UTC.
func Time(t time.Time) Cell { return Cell{kind: KindTime, t: t.UTC()} }

// Kind of the cell value.
func (c Cell) Kind() Kind { return c.kind }

// IsMissing tests for the missing sentinel.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Int64 returns the integer value; ok is false for any other kind.
func (c Cell) Int64() (int64, bool) {
	if c.kind != KindInt {
		return 0, false
	}
	return c.num, true
}

// Float64 returns the numeric value as a float; integer cells are converted.
// For non-numeric cells ok is false.
func (c Cell) Float64() (float64, bool) {
	switch c.kind {
	case KindInt:
		return float64(c.num), true
	case KindFloat:
		return c.fnum, true
	}
	return 0, false
}

// Str returns the string value; ok is false for any other kind.
func (c Cell) Str() (string, bool) {
	if c.kind != KindString {
		return "", false
	}
	return c.str, true
}

// Boolean returns the boolean value; ok is false for any other kind.
func (c Cell) Boolean() (bool, bool) {
	if c.kind != KindBool {
		return false, false
	}
	return c.b, true
}

// TimeVal returns the timestamp value; ok is false for any other kind.
func (c Cell) TimeVal() (time.Time, bool) {
	if c.kind != KindTime {
		return time.Time{}, false
	}
	return c.t, true
}

// String renders the cell the way it appears in CSV exports: integers in
// decimal, floats in the shortest exact form, timestamps in RFC 3339, and
// the missing value as an empty string.
func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.num, 10)
	case KindFloat:
		return strconv.FormatFloat(c.fnum, 'g', -1, 64)
	case KindString:
		return c.str
	case KindBool:
		return strconv.FormatBool(c.b)
	case KindTime:
		return c.t.Format(time.RFC3339)
	}
	return ""
}

// Kind groups for ordering cells of different kinds.
const (
	groupMissing = iota
	groupNumber
	groupString
	groupBool
	groupTime
)

func (c Cell) kindGroup() int {
	switch c.kind {
	case KindInt, KindFloat:
		return groupNumber
	case KindString:
		return groupString
	case KindBool:
		return groupBool
	case KindTime:
		return groupTime
	}
	return groupMissing
}

// Less orders cells for sorting: missing values first, then numbers, strings,
// booleans and timestamps. Integer and float cells compare by numeric value.
func (c Cell) Less(c2 Cell) bool {
	g, g2 := c.kindGroup(), c2.kindGroup()
	if g != g2 {
		return g < g2
	}
	switch g {
	case groupNumber:
		x, _ := c.Float64()
		y, _ := c2.Float64()
		return x < y
	case groupString:
		return c.str < c2.str
	case groupBool:
		return !c.b && c2.b
	case groupTime:
		return c.t.Before(c2.t)
	}
	return false
}

// Equal tests cells for value equality. Integer and float cells holding the
// same numeric value are equal; missing equals only missing.
func (c Cell) Equal(c2 Cell) bool {
	g, g2 := c.kindGroup(), c2.kindGroup()
	if g != g2 {
		return false
	}
	switch g {
	case groupNumber:
		x, _ := c.Float64()
		y, _ := c2.Float64()
		return x == y
	case groupString:
		return c.str == c2.str
	case groupBool:
		return c.b == c2.b
	case groupTime:
		return c.t.Equal(c2.t)
	}
	return true
}

// Op combines two cells into a new one. All arithmetic helpers in this
// package are of this type and share the missing value rule: when either
// operand is missing, the result is missing.
type Op func(x, y Cell) Cell

// Add is x + y: integer addition when both operands are integers, float
// addition for any other numeric pair, concatenation for two strings.
// Anything else is missing.
func Add(x, y Cell) Cell {
	if x.kind == KindString && y.kind == KindString {
		return String(x.str + y.str)
	}
	return numericOp(x, y,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

// Sub is x - y for numeric cells, missing otherwise.
func Sub(x, y Cell) Cell {
	return numericOp(x, y,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

// Mul is x * y for numeric cells, missing otherwise.
func Mul(x, y Cell) Cell {
	return numericOp(x, y,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// Div is x / y for numeric cells, missing otherwise. The result is always a
// float: division by zero yields an infinity, and 0/0 is missing.
func Div(x, y Cell) Cell {
	xf, ok := x.Float64()
	if !ok {
		return Missing()
	}
	yf, ok := y.Float64()
	if !ok {
		return Missing()
	}
	return Float(xf / yf)
}

func numericOp(x, y Cell, i func(a, b int64) int64, f func(a, b float64) float64) Cell {
	if x.kind == KindInt && y.kind == KindInt {
		return Int(i(x.num, y.num))
	}
	xf, ok := x.Float64()
	if !ok {
		return Missing()
	}
	yf, ok := y.Float64()
	if !ok {
		return Missing()
	}
	return Float(f(xf, yf))
}
