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
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecords(t *testing.T) {
	t.Parallel()

	Convey("Record JSON round-trip works", t, func() {
		Convey("field order is preserved", func() {
			r := testRecord(`{"z": 1, "a": 2, "m": 3}`)
			So(r.Names(), ShouldResemble, []string{"z", "a", "m"})

			js, err := json.Marshal(&r)
			So(err, ShouldBeNil)
			So(string(js), ShouldEqual, `{"z":1,"a":2,"m":3}`)
		})

		Convey("nested objects and arrays", func() {
			r := testRecord(`{"properties": {"mag": 5.5, "felt": null},
  "geometry": {"coordinates": [179.3, -23.2, 600.0]}}`)
			v, ok := r.Get("properties")
			So(ok, ShouldBeTrue)
			props, ok := v.(*Record)
			So(ok, ShouldBeTrue)
			So(props.Names(), ShouldResemble, []string{"mag", "felt"})

			felt, ok := props.Get("felt")
			So(ok, ShouldBeTrue)
			So(felt, ShouldBeNil)

			v, ok = r.Get("geometry")
			So(ok, ShouldBeTrue)
			coords, ok := v.(*Record)
			So(ok, ShouldBeTrue)
			cv, ok := coords.Get("coordinates")
			So(ok, ShouldBeTrue)
			So(cv, ShouldResemble, []any{
				json.Number("179.3"), json.Number("-23.2"), json.Number("600.0")})
		})

		Convey("large integers survive exactly", func() {
			r := testRecord(`{"time": 1538443535718}`)
			So(CellOf(mustGet(&r, "time")), ShouldResemble, Int(1538443535718))
		})

		Convey("a non-object is an error", func() {
			var r Record
			So(json.Unmarshal([]byte(`[1, 2]`), &r), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`"text"`), &r), ShouldNotBeNil)
		})

		Convey("duplicate keys keep the first position, last value", func() {
			r := testRecord(`{"a": 1, "b": 2, "a": 3}`)
			So(r.Names(), ShouldResemble, []string{"a", "b"})
			So(CellOf(mustGet(&r, "a")), ShouldResemble, Int(3))
		})
	})

	Convey("Record Set and Get work", t, func() {
		r := NewRecord().Set("a", 1).Set("b", "x").Set("a", 2)
		So(r.Len(), ShouldEqual, 2)
		So(r.Names(), ShouldResemble, []string{"a", "b"})
		So(mustGet(r, "a"), ShouldEqual, 2)
		_, ok := r.Get("c")
		So(ok, ShouldBeFalse)
	})

	Convey("CellOf converts values to cells", t, func() {
		So(CellOf(nil), ShouldResemble, Missing())
		So(CellOf(true), ShouldResemble, Bool(true))
		So(CellOf("Fiji"), ShouldResemble, String("Fiji"))
		So(CellOf(json.Number("42")), ShouldResemble, Int(42))
		So(CellOf(json.Number("2.5")), ShouldResemble, Float(2.5))
		So(CellOf(42), ShouldResemble, Int(42))
		So(CellOf(int64(42)), ShouldResemble, Int(42))
		So(CellOf(2.5), ShouldResemble, Float(2.5))
		So(CellOf(Int(7)), ShouldResemble, Int(7))

		ts := time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC)
		So(CellOf(ts), ShouldResemble, Time(ts))

		Convey("non-scalars become their JSON text", func() {
			So(CellOf([]any{json.Number("1"), "x"}), ShouldResemble,
				String(`[1,"x"]`))
			nested := NewRecord().Set("depth", json.Number("600"))
			So(CellOf(nested), ShouldResemble, String(`{"depth":600}`))
		})
	})

	Convey("ExtractRecords works", t, func() {
		records := []Record{
			testRecord(`{"id": "us1", "properties": {"mag": 5.5, "place": "Fiji"}}`),
			testRecord(`{"id": "us2", "properties": {"mag": 6.1}}`),
		}

		Convey("extracts the nested objects in order", func() {
			props, err := ExtractRecords(records, "properties")
			So(err, ShouldBeNil)
			So(len(props), ShouldEqual, 2)
			So(props[0].Names(), ShouldResemble, []string{"mag", "place"})
			So(CellOf(mustGet(&props[1], "mag")), ShouldResemble, Float(6.1))
		})

		Convey("a record without the field fails the whole extraction", func() {
			bad := append(records, testRecord(`{"id": "us3"}`))
			props, err := ExtractRecords(bad, "properties")
			So(props, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `"properties"`)
			So(err.Error(), ShouldContainSubstring, "record 2")
		})

		Convey("SkipMissing drops such records instead", func() {
			bad := append(records, testRecord(`{"id": "us3"}`))
			props, err := ExtractRecordsOpt(bad, "properties",
				ExtractOptions{SkipMissing: true})
			So(err, ShouldBeNil)
			So(len(props), ShouldEqual, 2)
		})

		Convey("a non-object field is always an error", func() {
			bad := []Record{testRecord(`{"properties": 42}`)}
			_, err := ExtractRecordsOpt(bad, "properties",
				ExtractOptions{SkipMissing: true})
			So(err, ShouldNotBeNil)
		})

		Convey("extracted records feed FromRecords", func() {
			props, err := ExtractRecords(records, "properties")
			So(err, ShouldBeNil)
			f := FromRecords(props)
			So(f.ColumnNames(), ShouldResemble, []string{"mag", "place"})
			So(f.Dtypes().String(), ShouldEqual, "{mag: float64, place: text}")
		})
	})
}

func mustGet(r *Record, name string) any {
	v, ok := r.Get(name)
	if !ok {
		panic("no field " + name)
	}
	return v
}
