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

// Package usgs implements a client for the USGS earthquake event API.
//
// Official documentation is at https://earthquake.usgs.gov/fdsnws/event/1/ .
//
// The API returns GeoJSON feature collections. Each feature is one seismic
// event carrying its attributes in a nested "properties" object; the set of
// attributes varies by event, so features are decoded as ordered records
// rather than a fixed struct. FetchFrame converts a result to a frame.Frame
// with the property fields as columns, in the order the API returns them.
//
// A single query returns at most 20000 events. EventIterator pages larger
// results transparently using the limit and offset parameters, so callers
// never deal with paging themselves.
package usgs
