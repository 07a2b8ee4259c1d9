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

// Package report projects raw earthquake events onto a configurable list of
// columns and assembles the result into a frame.
package report

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/quakeframe/quakeframe/frame"
	"github.com/quakeframe/quakeframe/usgs"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
)

// millisCell converts a Unix milliseconds property to a time cell.
func millisCell(props *frame.Record, field string) frame.Cell {
	v, ok := props.Get(field)
	if !ok {
		return frame.Missing()
	}
	ms, ok := frame.CellOf(v).Int64()
	if !ok {
		return frame.Missing()
	}
	return frame.Time(time.UnixMilli(ms))
}

func projectEvent(event frame.Record, cols []Column) ([]frame.Cell, error) {
	v, ok := event.Get("properties")
	if !ok {
		return nil, errors.Reason("event has no properties")
	}
	props, ok := v.(*frame.Record)
	if !ok {
		return nil, errors.Reason("event properties is not a nested object")
	}
	cells := make([]frame.Cell, len(cols))
	for i, col := range cols {
		switch col.Kind {
		case "id":
			id, _ := event.Get("id")
			cells[i] = frame.CellOf(id)
		case "longitude":
			cells[i], _ = usgs.Coordinate(event, usgs.CoordLongitude)
		case "latitude":
			cells[i], _ = usgs.Coordinate(event, usgs.CoordLatitude)
		case "depth":
			cells[i], _ = usgs.Coordinate(event, usgs.CoordDepth)
		case "time", "updated":
			cells[i] = millisCell(props, col.Kind)
		default:
			name := col.Kind
			if name == "magtype" {
				name = "magType" // the property key is camel-cased
			}
			pv, ok := props.Get(name)
			if !ok {
				continue // leave the cell missing
			}
			cells[i] = frame.CellOf(pv)
		}
	}
	return cells, nil
}

// query translates the config filters into an event query.
func (c *Config) query() *usgs.Query {
	q := usgs.NewQuery()
	if !c.Start.IsZero() {
		q = q.Start(c.Start)
	}
	if !c.End.IsZero() {
		q = q.End(c.End)
	}
	if c.MinMagnitude != nil {
		q = q.MinMagnitude(*c.MinMagnitude)
	}
	if c.MaxMagnitude != nil {
		q = q.MaxMagnitude(*c.MaxMagnitude)
	}
	if c.Limit > 0 {
		q = q.Limit(c.Limit)
	}
	if c.OrderBy != "" {
		q = q.OrderBy(c.OrderBy)
	}
	if c.AlertLevel != "" {
		q = q.AlertLevel(c.AlertLevel)
	}
	if c.EventType != "" {
		q = q.EventType(c.EventType)
	}
	return q
}

// Run downloads the events matching the config filters and projects them onto
// the configured columns, one row per event. An event that cannot be
// projected is logged and skipped.
func Run(ctx context.Context, c *Config) (*frame.Frame, error) {
	events, err := usgs.FetchEvents(ctx, c.query())
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch events")
	}
	header := make([]string, len(c.Columns))
	sortIdx := -1 // column index to sort by
	for i, col := range c.Columns {
		header[i] = col.Header()
		if col.Sort != "" {
			sortIdx = i
		}
	}
	f := func(event frame.Record) []frame.Cell {
		row, err := projectEvent(event, c.Columns)
		if err != nil {
			logging.Warningf(ctx, "skipping event: %s", err.Error())
			return nil
		}
		return row
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(events), f)
	defer pm.Close()

	rows := iterator.Reduce[[]frame.Cell, [][]frame.Cell](pm, [][]frame.Cell{},
		func(r []frame.Cell, rows [][]frame.Cell) [][]frame.Cell {
			if r == nil {
				return rows
			}
			return append(rows, r)
		})
	if sortIdx >= 0 {
		less := func(i, j int) bool { return rows[i][sortIdx].Less(rows[j][sortIdx]) }
		if c.Columns[sortIdx].Sort == "descending" {
			less = func(i, j int) bool { return rows[j][sortIdx].Less(rows[i][sortIdx]) }
		}
		sort.Slice(rows, less)
	}
	res, err := frame.FromRows(rows, header)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build the report")
	}
	return res, nil
}
