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

package message

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func testJSON(js string) any {
	var res any
	if err := json.Unmarshal([]byte(js), &res); err != nil {
		return nil
	}
	return res
}

type Event struct {
	Place       string  `json:"place" required:"true"`
	Status      string  `json:"status" default:"automatic"`
	Alert       string  `choices:"green,yellow,orange,red" default:"green"`
	Mag         float64 `default:"2.5"`
	Felt        *int    `default:"4"`
	Tsunami     bool    `default:"true"`
	Reviewed    bool
	Aftershocks []*Event          `json:"aftershocks,omitempty"`
	Tags        map[string]string `json:"tags"`
	Ignored     int               `json:"-"`
	unexported  int
}

var _ Message = &Event{}

func (e *Event) InitMessage(js any) error {
	return Init(e, js)
}

type BadChoice struct {
	Choice string `choices:"foo,bar"` // no default
}

func (b *BadChoice) InitMessage(js any) error {
	return Init(b, js)
}

func TestMessage(t *testing.T) {
	t.Parallel()
	Convey("Init() works", t, func() {
		Convey("with required fields only", func() {
			var e Event
			So(e.InitMessage(testJSON(`{"place": "Fiji"}`)), ShouldBeNil)
			So(e.Place, ShouldEqual, "Fiji")
			So(e.Status, ShouldEqual, "automatic")
			So(e.Mag, ShouldEqual, 2.5)
			So(*e.Felt, ShouldEqual, 4)
			So(e.Tsunami, ShouldBeTrue)
			So(e.Reviewed, ShouldBeFalse)
			So(len(e.Aftershocks), ShouldEqual, 0)
		})

		Convey("with recursive Message entries", func() {
			var e Event
			So(e.InitMessage(testJSON(`{
        "place": "Fiji", "Felt": null, "Tsunami": false, "Mag": 5.2,
        "Reviewed": true,
        "tags": {"tag1": "foo", "tag2": "bar"},
        "aftershocks": [
          {"place": "near Fiji", "Mag": 0.1, "Alert": "yellow"},
          {"place": "far Fiji", "Felt": 3}]
      }`)), ShouldBeNil)
			So(e.Place, ShouldEqual, "Fiji")
			So(e.Alert, ShouldEqual, "green")
			So(e.Felt, ShouldBeNil)
			So(e.Tsunami, ShouldBeFalse)
			So(e.Mag, ShouldEqual, 5.2)
			So(e.Reviewed, ShouldBeTrue)
			So(e.Tags, ShouldResemble, map[string]string{"tag1": "foo", "tag2": "bar"})
			So(len(e.Aftershocks), ShouldEqual, 2)
			near := e.Aftershocks[0]
			far := e.Aftershocks[1]
			So(near.Place, ShouldEqual, "near Fiji")
			So(near.Alert, ShouldEqual, "yellow")
			So(near.Mag, ShouldEqual, 0.1)
			So(*near.Felt, ShouldEqual, 4)
			So(far.Place, ShouldEqual, "far Fiji")
			So(far.Alert, ShouldEqual, "green")
			So(far.Mag, ShouldEqual, 2.5)
			So(*far.Felt, ShouldEqual, 3)
			So(e.unexported, ShouldEqual, 0)
		})

		Convey("with missing fields in recursive Init() call", func() {
			var e Event
			// An aftershock is missing its place.
			So(e.InitMessage(testJSON(
				`{"place": "Fiji", "aftershocks": [{"Mag": 0.1}]}`)), ShouldNotBeNil)
		})

		Convey("with ignored fields", func() {
			var e Event
			err := e.InitMessage(testJSON(`{"place": "F", "Ignored": 5}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported fields for Event: Ignored")
		})

		Convey("with unexported fields", func() {
			var e Event
			err := e.InitMessage(testJSON(`{"place": "F", "unexported": 5}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported fields for Event: unexported")
		})

		Convey("with missing required fields", func() {
			var e Event
			err := e.InitMessage(testJSON(`{"Mag": 6.1}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing required fields: place")
		})

		Convey("with incorrect alert level", func() {
			var e Event
			err := e.InitMessage(testJSON(`{"place": "F", "Alert": "purple"}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring,
				"value for Alert is not in its choice list: 'purple'")
		})

		Convey("with incorrect default choice", func() {
			var b BadChoice
			err := b.InitMessage(testJSON(`{}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring,
				"error setting zero value for Choice")
			So(err.Error(), ShouldContainSubstring,
				"value for Choice is not in its choice list: ''")
		})
	})

	Convey("FromJSON works", t, func() {
		Convey("with a valid message", func() {
			var e Event
			So(FromJSON(&e, []byte(`{"place": "Fiji", "Mag": 4.4}`)), ShouldBeNil)
			So(e.Place, ShouldEqual, "Fiji")
			So(e.Mag, ShouldEqual, 4.4)
		})

		Convey("with malformed JSON", func() {
			var e Event
			err := FromJSON(&e, []byte(`{"place": `))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to parse JSON")
		})
	})

	Convey("FromFile works", t, func() {
		tmpdir, tmpdirErr := os.MkdirTemp("", "test_message")
		defer os.RemoveAll(tmpdir)
		So(tmpdirErr, ShouldBeNil)
		configFile := filepath.Join(tmpdir, "config.json")

		Convey("with a valid file", func() {
			So(testutil.WriteFile(configFile, `{"place": "Fiji"}`), ShouldBeNil)
			var e Event
			So(FromFile(&e, configFile), ShouldBeNil)
			So(e.Place, ShouldEqual, "Fiji")
			So(e.Status, ShouldEqual, "automatic")
		})

		Convey("with a missing file", func() {
			var e Event
			err := FromFile(&e, filepath.Join(tmpdir, "no-such.json"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to read file")
		})

		Convey("with an invalid message", func() {
			So(testutil.WriteFile(configFile, `{"Mag": 3.3}`), ShouldBeNil)
			var e Event
			err := FromFile(&e, configFile)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to init message from file")
		})
	})

	Convey("StringIn works", t, func() {
		So(StringIn("mag", "time", "mag", "place"), ShouldBeTrue)
		So(StringIn("depth", "time", "mag"), ShouldBeFalse)
	})
}
