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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quakeframe/quakeframe/frame"
	"github.com/quakeframe/quakeframe/usgs"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_report")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-conf", "path/to/config", "-log-level", "warning", "-csv", "-rows", "5"})
		So(err, ShouldBeNil)
		So(flags.Config, ShouldEqual, "path/to/config")
		So(flags.LogLevel, ShouldEqual, logging.Warning)
		So(flags.CSV, ShouldBeTrue)
		So(flags.Rows, ShouldEqual, 5)

		_, err = parseFlags([]string{"-csv"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "missing required -conf argument")
	})

	Convey("printData works", t, func() {
		server := fetch.NewTestServer()
		defer server.Close()

		ctx := fetch.UseClient(context.Background(), server.Client())
		usgs.URL = server.URL() + "/fdsnws/event/1"
		ctx = usgs.UseClient(ctx, usgs.NewClient())

		mk := func(id string, mag float64, place string, ms int64) frame.Record {
			props := frame.NewRecord().
				Set("time", ms).Set("mag", mag).Set("place", place)
			return usgs.TestFeature(id, props, []float64{179.0, -23.0, 100.0})
		}
		page, err := usgs.TestFeatureCollection([]frame.Record{
			mk("ev1", 5.2, "Vanuatu", 1538444000000),
			mk("ev2", 6.7, "Fiji region", 1538443535000),
		}, 2)
		So(err, ShouldBeNil)
		server.ResponseBody = []string{page}

		configFile := filepath.Join(tmpdir, "config.json")

		Convey("print text", func() {
			So(testutil.WriteFile(configFile, `
{
  "limit": 2,
  "columns": [
    {"kind": "mag", "sort": "descending"},
    {"kind": "place"}
  ]
}`), ShouldBeNil)
			flags, err := parseFlags([]string{"-conf", configFile})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
mag |       place
--- | -----------
6.7 | Fiji region
5.2 |     Vanuatu
`)
		})

		Convey("print CSV with a row cap", func() {
			So(testutil.WriteFile(configFile, `
{
  "limit": 2,
  "columns": [
    {"kind": "time"},
    {"kind": "mag", "sort": "ascending"},
    {"kind": "place"}
  ]
}`), ShouldBeNil)
			flags, err := parseFlags([]string{"-conf", configFile, "-csv", "-rows", "1"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(printData(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
time,mag,place
2018-10-02T01:33:20Z,5.2,Vanuatu
`)
		})

		Convey("reports a config error", func() {
			So(testutil.WriteFile(configFile, `{"columns": [{"kind": "color"}]}`),
				ShouldBeNil)
			flags, err := parseFlags([]string{"-conf", configFile})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			err = printData(ctx, flags, &buf)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to read config")
		})
	})
}
