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
	"context"
	"net/url"
	"strconv"

	"github.com/quakeframe/quakeframe/frame"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the event service. It may be overwritten in
// tests before creating a new client.
var URL = "https://earthquake.usgs.gov/fdsnws/event/1"

const (
	defaultPerPage = 2000
	maxPerPage     = 20000 // the service hard-caps a single response
)

// Client for querying the earthquake event service.
type Client struct {
	baseURL string // the base URL of the server
	perPage int    // page size for the transparent paging
}

// NewClient creates a new client with the default page size.
func NewClient() *Client {
	return &Client{baseURL: URL, perPage: defaultPerPage}
}

// PerPage returns a copy of the client with the given page size, capped at
// the service maximum.
func (c *Client) PerPage(size int) *Client {
	if size < 1 {
		size = defaultPerPage
	}
	if size > maxPerPage {
		size = maxPerPage
	}
	c2 := *c
	c2.perPage = size
	return &c2
}

// GetClient extracts the Client from the context, falling back to a default
// client.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return NewClient()
	}
	return c
}

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// Query is a builder for an event search. Builder methods always create a
// copy of the query, leaving the original intact.
type Query struct {
	start   Date
	end     Date
	minMag  float64
	hasMin  bool
	maxMag  float64
	hasMax  bool
	limit   int
	offset  int
	orderBy string
	alert   string
	event   string
}

// NewQuery creates an empty query: all events in the service's default order.
func NewQuery() *Query {
	return &Query{}
}

// Copy creates a copy of the query. It is primarily used in its builder
// methods.
func (q *Query) Copy() *Query {
	q2 := *q
	return &q2
}

// Start bounds the result to events at or after the date, UTC.
func (q *Query) Start(d Date) *Query {
	q2 := q.Copy()
	q2.start = d
	return q2
}

// End bounds the result to events at or before the date, UTC.
func (q *Query) End(d Date) *Query {
	q2 := q.Copy()
	q2.end = d
	return q2
}

// MinMagnitude bounds the result to events of at least this magnitude.
func (q *Query) MinMagnitude(m float64) *Query {
	q2 := q.Copy()
	q2.minMag = m
	q2.hasMin = true
	return q2
}

// MaxMagnitude bounds the result to events of at most this magnitude.
func (q *Query) MaxMagnitude(m float64) *Query {
	q2 := q.Copy()
	q2.maxMag = m
	q2.hasMax = true
	return q2
}

// Limit caps the total number of events the query returns; 0 = unlimited.
// Results larger than the service page cap are downloaded in pages.
func (q *Query) Limit(n int) *Query {
	if n < 0 {
		n = 0
	}
	q2 := q.Copy()
	q2.limit = n
	return q2
}

// Offset starts the result at the given 1-based position.
func (q *Query) Offset(n int) *Query {
	if n < 1 {
		n = 1
	}
	q2 := q.Copy()
	q2.offset = n
	return q2
}

// OrderBy sets the result order: "time", "time-asc", "magnitude" or
// "magnitude-asc". The service default is "time", newest first.
func (q *Query) OrderBy(order string) *Query {
	q2 := q.Copy()
	q2.orderBy = order
	return q2
}

// AlertLevel filters events by their PAGER alert level: "green", "yellow",
// "orange" or "red".
func (q *Query) AlertLevel(level string) *Query {
	q2 := q.Copy()
	q2.alert = level
	return q2
}

// EventType filters by the type of seismic event, e.g. "earthquake" or
// "quarry blast".
func (q *Query) EventType(typ string) *Query {
	q2 := q.Copy()
	q2.event = typ
	return q2
}

var orderByChoices = map[string]bool{
	"time":          true,
	"time-asc":      true,
	"magnitude":     true,
	"magnitude-asc": true,
}

var alertChoices = map[string]bool{
	"green":  true,
	"yellow": true,
	"orange": true,
	"red":    true,
}

// Values returns the URL parameters for the query. Each call creates a new
// object, so the caller is free to modify it without affecting the query.
func (q *Query) Values() (url.Values, error) {
	v := make(url.Values)
	v["format"] = []string{"geojson"}
	if !q.start.IsZero() {
		v["starttime"] = []string{q.start.String()}
	}
	if !q.end.IsZero() {
		v["endtime"] = []string{q.end.String()}
	}
	if q.hasMin {
		v["minmagnitude"] = []string{strconv.FormatFloat(q.minMag, 'f', -1, 64)}
	}
	if q.hasMax {
		v["maxmagnitude"] = []string{strconv.FormatFloat(q.maxMag, 'f', -1, 64)}
	}
	if q.limit > 0 {
		v["limit"] = []string{strconv.Itoa(q.limit)}
	}
	if q.offset > 0 {
		v["offset"] = []string{strconv.Itoa(q.offset)}
	}
	if q.orderBy != "" {
		if !orderByChoices[q.orderBy] {
			return nil, errors.Reason("unsupported orderby value: %q", q.orderBy)
		}
		v["orderby"] = []string{q.orderBy}
	}
	if q.alert != "" {
		if !alertChoices[q.alert] {
			return nil, errors.Reason("unsupported alertlevel value: %q", q.alert)
		}
		v["alertlevel"] = []string{q.alert}
	}
	if q.event != "" {
		v["eventtype"] = []string{q.event}
	}
	return v, nil
}

// fetchPage executes the query using the Client from the context and
// downloads one page of events.
func (q *Query) fetchPage(ctx context.Context, page *FeatureCollection) error {
	client := GetClient(ctx)
	uri := client.baseURL + "/query"
	query, err := q.Values()
	if err != nil {
		return errors.Annotate(err, "invalid query")
	}
	if err := fetch.FetchJSON(ctx, uri, page, query, nil); err != nil {
		return errors.Annotate(err, "failed to fetch URL")
	}
	return nil
}

// EventIterator iterates over query results event by event. Paging is
// handled transparently.
type EventIterator struct {
	context   context.Context
	query     *Query
	page      FeatureCollection
	index     int  // the feature for Next() to return
	offset    int  // 1-based offset of the next page
	remaining int  // events left under the query limit; -1 = unlimited
	pageCount int  // which page number we're on, for logging
	started   bool // if at least one Next call was ever made
	done      bool // no more pages to fetch
}

// Events sets up the iterator over the query results, which will execute the
// query as needed and handle paging transparently.
func (q *Query) Events(ctx context.Context) *EventIterator {
	offset := q.offset
	if offset < 1 {
		offset = 1
	}
	remaining := -1
	if q.limit > 0 {
		remaining = q.limit
	}
	return &EventIterator{
		context:   ctx,
		query:     q,
		offset:    offset,
		remaining: remaining,
	}
}

// nextPage fetches and populates the iterator with the next page of events.
// When there are no more pages to load, or loading a page results in an
// error, the first return value becomes false.
func (it *EventIterator) nextPage() (bool, error) {
	if it.done {
		return false, nil
	}
	size := GetClient(it.context).perPage
	if it.remaining >= 0 && it.remaining < size {
		size = it.remaining
	}
	if size == 0 {
		it.done = true
		return false, nil
	}
	q := it.query.Limit(size).Offset(it.offset)
	// Clear the page, in case read doesn't overwrite some parts.
	it.page = FeatureCollection{}
	if err := q.fetchPage(it.context, &it.page); err != nil {
		return false, errors.Annotate(err, "failed to query page %d", it.pageCount+1)
	}
	it.index = 0
	it.pageCount++
	it.offset += len(it.page.Features)
	if it.remaining > 0 {
		it.remaining -= len(it.page.Features)
	}
	if len(it.page.Features) < size {
		it.done = true // a short page is the last one
	}
	logging.Infof(it.context, "USGS: fetched page %d with %d events; offset: %d",
		it.pageCount, len(it.page.Features), it.offset)
	return len(it.page.Features) > 0, nil
}

// Next returns the next event. When the events are exhausted, the second
// value is false. Note that the error may be non-nil regardless of the end of
// the iterator.
func (it *EventIterator) Next() (frame.Record, bool, error) {
	if !it.started {
		it.started = true
		if ok, err := it.nextPage(); !ok {
			return frame.Record{}, false, err
		}
	}
	if it.index >= len(it.page.Features) {
		if ok, err := it.nextPage(); !ok {
			return frame.Record{}, false, err
		}
	}
	if it.index >= len(it.page.Features) {
		return frame.Record{}, false, nil
	}
	f := it.page.Features[it.index]
	it.index++
	return f, true, nil
}

// FetchEvents runs the query and drains the iterator into a slice of raw
// features.
func FetchEvents(ctx context.Context, q *Query) ([]frame.Record, error) {
	var events []frame.Record
	it := q.Events(ctx)
	for {
		r, ok, err := it.Next()
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch events")
		}
		if !ok {
			break
		}
		events = append(events, r)
	}
	return events, nil
}

// FetchFrame runs the query and converts the result to a Frame: one row per
// event, the property fields as columns in the order the API returns them.
// An event without properties fails the conversion.
func FetchFrame(ctx context.Context, q *Query) (*frame.Frame, error) {
	events, err := FetchEvents(ctx, q)
	if err != nil {
		return nil, err
	}
	props, err := frame.ExtractRecords(events, "properties")
	if err != nil {
		return nil, errors.Annotate(err, "failed to extract event properties")
	}
	return frame.FromRecords(props), nil
}

// countResponse is the JSON format of the /count endpoint.
type countResponse struct {
	Count      int `json:"count"`
	MaxAllowed int `json:"maxAllowed"`
}

// Count returns the number of events matching the query without downloading
// them.
func Count(ctx context.Context, q *Query) (int, error) {
	client := GetClient(ctx)
	uri := client.baseURL + "/count"
	query, err := q.Values()
	if err != nil {
		return 0, errors.Annotate(err, "invalid query")
	}
	var res countResponse
	if err := fetch.FetchJSON(ctx, uri, &res, query, nil); err != nil {
		return 0, errors.Annotate(err, "failed to fetch URL")
	}
	return res.Count, nil
}
