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
	"context"
	"flag"
	"io"
	"os"

	"github.com/quakeframe/quakeframe/frame"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type Flags struct {
	In       string // input CSV file, required
	LogLevel logging.Level
	Rows     int  // max. number of rows to print; 0 = all
	Describe bool // print summary statistics instead of the rows
	CSV      bool // dump CSV format; default: text.
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("quake-list", flag.ExitOnError)
	fs.StringVar(&flags.In, "in", "", "input CSV file (required)")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; 0 = all")
	fs.BoolVar(&flags.Describe, "describe", false,
		"print summary statistics of the numeric columns")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.In == "" {
		return nil, errors.Reason("missing required -in argument")
	}
	return &flags, err
}

// describeTable summarizes the frame and prepends the statistic labels as the
// first column, so they survive the export.
func describeTable(f *frame.Frame) (*frame.Frame, error) {
	d := f.Describe()
	labels := d.Index()
	stats := make([]frame.Cell, labels.Len())
	for i := range stats {
		stats[i] = frame.String(labels.At(i).String())
	}
	columns := []frame.Column{{Name: "stat", Cells: stats}}
	for _, name := range d.ColumnNames() {
		s, ok := d.Column(name)
		if !ok {
			return nil, errors.Reason("no column %q in the summary", name)
		}
		columns = append(columns, frame.Column{Name: name, Cells: s.Cells()})
	}
	return frame.FromColumns(columns)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	in, err := os.Open(flags.In)
	if err != nil {
		return errors.Annotate(err, "failed to open input file %s", flags.In)
	}
	defer in.Close()

	f, err := frame.ReadCSV(in)
	if err != nil {
		return errors.Annotate(err, "failed to read CSV from %s", flags.In)
	}
	rows, cols := f.Shape()
	logging.Infof(ctx, "read %d rows x %d columns from %s", rows, cols, flags.In)
	if flags.Describe {
		if f, err = describeTable(f); err != nil {
			return errors.Annotate(err, "failed to summarize %s", flags.In)
		}
	}
	p := frame.Params{Rows: flags.Rows}
	if flags.CSV {
		if err := f.WriteCSV(w, p); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := f.WriteText(w, p); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
