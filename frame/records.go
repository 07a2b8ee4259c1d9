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
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/stockparfait/errors"
)

// RecordField is a single named value of a Record.
type RecordField struct {
	Name  string
	Value any
}

// Record is a JSON object that preserves the order of its fields, which Go
// maps do not. Nested objects decode as *Record, arrays as []any, and
// numbers as json.Number to keep large integers exact. A Record is the unit
// of row construction: FromRecords turns a sequence of them into a Frame.
type Record struct {
	fields []RecordField
	pos    map[string]int
}

var _ json.Unmarshaler = &Record{}
var _ json.Marshaler = &Record{}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{pos: map[string]int{}}
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Names returns the field names in their original order.
func (r *Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Get returns the value of the named field, and whether the field exists.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.pos[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// Set replaces the value of the named field, or appends the field if it is
// new. It returns the receiver for chaining.
func (r *Record) Set(name string, value any) *Record {
	if r.pos == nil {
		r.pos = map[string]int{}
	}
	if i, ok := r.pos[name]; ok {
		r.fields[i].Value = value
		return r
	}
	r.pos[name] = len(r.fields)
	r.fields = append(r.fields, RecordField{Name: name, Value: value})
	return r
}

// UnmarshalJSON implements json.Unmarshaler by walking the raw token stream,
// since decoding into a map would lose the field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return errors.Annotate(err, "failed to read JSON token")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Reason("record must be a JSON object, got %v", tok)
	}
	rec, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// decodeObject reads the fields of a JSON object through its closing brace;
// the opening brace has already been consumed.
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Annotate(err, "failed to read field name")
		}
		name, ok := tok.(string)
		if !ok {
			return nil, errors.Reason("expected a field name, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, errors.Annotate(err, "failed to decode field %q", name)
		}
		rec.Set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Annotate(err, "failed to read object end")
	}
	return rec, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	vals := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Annotate(err, "failed to read array end")
	}
	return vals, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Annotate(err, "failed to read JSON value")
	}
	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.Reason("unexpected delimiter %q", d.String())
	}
	return tok, nil
}

// MarshalJSON implements json.Marshaler, writing the fields in their
// original order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, errors.Annotate(err, "failed to marshal field name %q", f.Name)
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, errors.Annotate(err, "failed to marshal field %q", f.Name)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CellOf converts a Record field value to a Cell. JSON null becomes the
// missing cell, and a json.Number becomes an Int when it parses as an
// integer, a Float otherwise. Values with no scalar representation, such as
// nested records and arrays, become their compact JSON text.
func CellOf(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Cell:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case json.Number:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return Int(n)
		}
		f, err := x.Float64()
		if err != nil {
			return String(string(x))
		}
		return Float(f)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case time.Time:
		return Time(x)
	}
	js, err := json.Marshal(v)
	if err != nil {
		return Missing()
	}
	return String(string(js))
}

// ExtractOptions configures ExtractRecordsOpt.
type ExtractOptions struct {
	// SkipMissing drops the records without the target field instead of
	// failing the entire extraction.
	SkipMissing bool
}

// ExtractRecords pulls the named nested object out of each record. A record
// without the field fails the extraction with no partial result; use
// ExtractRecordsOpt to skip such records instead.
func ExtractRecords(records []Record, field string) ([]Record, error) {
	return ExtractRecordsOpt(records, field, ExtractOptions{})
}

// ExtractRecordsOpt is ExtractRecords with options. A field that exists but
// is not a nested object always fails the extraction.
func ExtractRecordsOpt(records []Record, field string, opts ExtractOptions) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for i, rec := range records {
		v, ok := rec.Get(field)
		if !ok {
			if opts.SkipMissing {
				continue
			}
			return nil, errors.Reason("missing field %q in record %d", field, i)
		}
		nested, ok := v.(*Record)
		if !ok {
			return nil, errors.Reason(
				"field %q in record %d is not a nested object", field, i)
		}
		out = append(out, *nested)
	}
	return out, nil
}
