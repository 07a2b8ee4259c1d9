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

package usgs

import (
	"encoding/json"

	"github.com/quakeframe/quakeframe/frame"
)

// Metadata describes one query response: the generation time in Unix
// milliseconds, the request URL, the HTTP status, the API version and the
// number of returned features.
type Metadata struct {
	Generated int64  `json:"generated"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	API       string `json:"api"`
	Count     int    `json:"count"`
}

// FeatureCollection is the GeoJSON payload of the event query API. The
// features are kept as ordered records: an event's attributes live in its
// nested "properties" object, and their set varies by event.
type FeatureCollection struct {
	Type     string         `json:"type"`
	Metadata Metadata       `json:"metadata"`
	Features []frame.Record `json:"features"`
	BBox     []float64      `json:"bbox,omitempty"`
}

// Coordinate positions within a feature's point geometry.
const (
	CoordLongitude = iota
	CoordLatitude
	CoordDepth
)

// Coordinate returns the i-th value of the feature's geometry coordinates:
// longitude, latitude, or depth in km. The second value is false when the
// geometry or the coordinate is absent.
func Coordinate(feature frame.Record, i int) (frame.Cell, bool) {
	v, ok := feature.Get("geometry")
	if !ok {
		return frame.Missing(), false
	}
	geom, ok := v.(*frame.Record)
	if !ok {
		return frame.Missing(), false
	}
	cv, ok := geom.Get("coordinates")
	if !ok {
		return frame.Missing(), false
	}
	coords, ok := cv.([]any)
	if !ok || i < 0 || i >= len(coords) {
		return frame.Missing(), false
	}
	return frame.CellOf(coords[i]), true
}

// TestFeatureCollection generates the JSON string in the format returned by
// the event query API. For use in tests.
func TestFeatureCollection(features []frame.Record, count int) (string, error) {
	bytes, err := json.Marshal(&FeatureCollection{
		Type:     "FeatureCollection",
		Metadata: Metadata{Status: 200, API: "1.14.1", Count: count},
		Features: features,
	})
	return string(bytes), err
}

// TestFeature generates a single GeoJSON feature with the given event id,
// properties and [longitude, latitude, depth] coordinates. For use in tests.
func TestFeature(id string, properties *frame.Record, coords []float64) frame.Record {
	// Store coordinates the way JSON decoding does, so the record behaves the
	// same with or without a round trip through the API.
	cs := make([]any, len(coords))
	for i, c := range coords {
		cs[i] = c
	}
	geometry := frame.NewRecord().
		Set("type", "Point").
		Set("coordinates", cs)
	return *frame.NewRecord().
		Set("type", "Feature").
		Set("properties", properties).
		Set("geometry", geometry).
		Set("id", id)
}
