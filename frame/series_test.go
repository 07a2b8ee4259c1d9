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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeries(t *testing.T) {
	t.Parallel()

	Convey("Series construction works", t, func() {
		Convey("nil index defaults to the range index", func() {
			s := NewSeries("mag", []Cell{Int(1), Int(2)}, nil)
			So(s.Name(), ShouldEqual, "mag")
			So(s.Len(), ShouldEqual, 2)
			So(s.Index().Equal(RangeIndex(2)), ShouldBeTrue)
			So(s.Dtype(), ShouldEqual, Int64)
		})

		Convey("length mismatch panics", func() {
			So(func() { NewSeries("x", []Cell{Int(1)}, RangeIndex(2)) }, ShouldPanic)
		})

		Convey("cells are copied", func() {
			cells := []Cell{Int(1)}
			s := NewSeries("x", cells, nil)
			cells[0] = Int(42)
			So(s.At(0), ShouldResemble, Int(1))
		})
	})

	Convey("Series accessors work", t, func() {
		ix := NewIndex([]Label{StringLabel("a"), StringLabel("b"), StringLabel("a")})
		s := NewSeries("vals", []Cell{Int(10), Int(20), Int(30)}, ix)

		Convey("Get returns the first occurrence of a duplicated label", func() {
			c, ok := s.Get(StringLabel("a"))
			So(ok, ShouldBeTrue)
			So(c, ShouldResemble, Int(10))
		})

		Convey("Get of an absent label", func() {
			_, ok := s.Get(StringLabel("z"))
			So(ok, ShouldBeFalse)
		})

		Convey("Cells returns a copy", func() {
			cells := s.Cells()
			cells[0] = Int(42)
			So(s.At(0), ShouldResemble, Int(10))
		})

		Convey("WithAt leaves the receiver unchanged", func() {
			s2 := s.WithAt(1, Int(42))
			So(s2.At(1), ShouldResemble, Int(42))
			So(s.At(1), ShouldResemble, Int(20))
			So(s2.Index(), ShouldEqual, s.Index())
		})

		Convey("WithAt out of range panics", func() {
			So(func() { s.WithAt(3, Int(0)) }, ShouldPanic)
			So(func() { s.WithAt(-1, Int(0)) }, ShouldPanic)
		})

		Convey("With replaces at the label's first occurrence", func() {
			s2, err := s.With(StringLabel("a"), Int(42))
			So(err, ShouldBeNil)
			So(s2.Cells(), ShouldResemble, []Cell{Int(42), Int(20), Int(30)})
		})

		Convey("With of an absent label is an error", func() {
			_, err := s.With(StringLabel("z"), Int(42))
			So(err, ShouldNotBeNil)
		})

		Convey("Head keeps the first cells with their labels", func() {
			h := s.Head(2)
			So(h.Len(), ShouldEqual, 2)
			So(h.Index().Labels(), ShouldResemble, []Label{
				StringLabel("a"), StringLabel("b")})
			So(s.Len(), ShouldEqual, 3)
		})

		Convey("Rename shares the data", func() {
			So(s.Rename("other").Name(), ShouldEqual, "other")
			So(s.Name(), ShouldEqual, "vals")
		})
	})

	Convey("Series alignment works", t, func() {
		Convey("equal indexes combine positionally", func() {
			s1 := NewSeries("x", []Cell{Int(1), Int(2)}, nil)
			s2 := NewSeries("x", []Cell{Int(10), Int(20)}, nil)
			sum := s1.Add(s2)
			So(sum.Name(), ShouldEqual, "x")
			So(sum.Index().Equal(RangeIndex(2)), ShouldBeTrue)
			So(sum.Cells(), ShouldResemble, []Cell{Int(11), Int(22)})
		})

		Convey("shifted indexes align by label", func() {
			cells := []Cell{Float(0), Float(2.5), Float(5), Float(7.5), Float(10)}
			ix1 := NewIndex([]Label{
				IntLabel(0), IntLabel(1), IntLabel(2), IntLabel(3), IntLabel(4)})
			ix2 := NewIndex([]Label{
				IntLabel(1), IntLabel(2), IntLabel(3), IntLabel(4), IntLabel(5)})
			sum := NewSeries("d", cells, ix1).Add(NewSeries("d", cells, ix2))

			So(sum.Index().Labels(), ShouldResemble, []Label{
				IntLabel(0), IntLabel(1), IntLabel(2),
				IntLabel(3), IntLabel(4), IntLabel(5)})
			So(sum.Cells(), ShouldResemble, []Cell{
				Missing(), Float(2.5), Float(7.5),
				Float(12.5), Float(17.5), Missing()})
		})

		Convey("one-sided labels are missing, not the lone value", func() {
			s1 := NewSeries("x", []Cell{Int(1)}, NewIndex([]Label{StringLabel("a")}))
			s2 := NewSeries("x", []Cell{Int(2)}, NewIndex([]Label{StringLabel("b")}))
			sum := s1.Add(s2)
			So(sum.Cells(), ShouldResemble, []Cell{Missing(), Missing()})
		})

		Convey("different names drop the result name", func() {
			s1 := NewSeries("x", []Cell{Int(1)}, nil)
			s2 := NewSeries("y", []Cell{Int(2)}, nil)
			So(s1.Add(s2).Name(), ShouldEqual, "")
		})

		Convey("string series concatenate", func() {
			s1 := NewSeries("s", []Cell{String("ab"), String("c")}, nil)
			s2 := NewSeries("s", []Cell{String("cd"), Missing()}, nil)
			sum := s1.Add(s2)
			So(sum.Cells(), ShouldResemble, []Cell{String("abcd"), Missing()})
		})

		Convey("Sub, Mul and Div", func() {
			s1 := NewSeries("x", []Cell{Int(6), Int(8)}, nil)
			s2 := NewSeries("x", []Cell{Int(3), Int(2)}, nil)
			So(s1.Sub(s2).Cells(), ShouldResemble, []Cell{Int(3), Int(6)})
			So(s1.Mul(s2).Cells(), ShouldResemble, []Cell{Int(18), Int(16)})
			So(s1.Div(s2).Cells(), ShouldResemble, []Cell{Float(2), Float(4)})
		})
	})
}
