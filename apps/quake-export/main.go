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
	"github.com/quakeframe/quakeframe/usgs"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Config   string // config file, required
	Out      string // output CSV file; default: stdout
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("quake-export", flag.ExitOnError)
	fs.StringVar(&flags.Config, "conf", "", "config file (required)")
	fs.StringVar(&flags.Out, "out", "", "output CSV file; default: stdout")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -conf argument")
	}
	return &flags, err
}

type Config struct {
	Start        string   `toml:"start"`         // first day of the window
	End          string   `toml:"end"`           // last day of the window
	MinMagnitude *float64 `toml:"min_magnitude"` // unset = unbounded
	MaxMagnitude *float64 `toml:"max_magnitude"` // unset = unbounded
	Limit        int      `toml:"limit"`         // 0 = all matching events
	OrderBy      string   `toml:"order_by"`      // default: time, newest first
	Columns      []string `toml:"columns"`       // property columns to keep; default: all
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `start = "2018-10-01"
end = "2018-10-13"
min_magnitude = 4.5
order_by = "time-asc"
columns = ["time", "mag", "place"]
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

func (c *Config) query() (*usgs.Query, error) {
	q := usgs.NewQuery()
	if c.Start != "" {
		d, err := usgs.NewDateFromString(c.Start)
		if err != nil {
			return nil, errors.Annotate(err, "invalid start date")
		}
		q = q.Start(d)
	}
	if c.End != "" {
		d, err := usgs.NewDateFromString(c.End)
		if err != nil {
			return nil, errors.Annotate(err, "invalid end date")
		}
		q = q.End(d)
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
	return q, nil
}

func export(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	q, err := config.query()
	if err != nil {
		return errors.Annotate(err, "failed to build the query")
	}
	f, err := usgs.FetchFrame(ctx, q)
	if err != nil {
		return errors.Annotate(err, "failed to download events")
	}
	if len(config.Columns) > 0 {
		if f, err = f.Select(config.Columns...); err != nil {
			return errors.Annotate(err, "failed to select columns")
		}
	}
	if flags.Out != "" {
		out, err := os.Create(flags.Out)
		if err != nil {
			return errors.Annotate(err, "failed to create output file %s", flags.Out)
		}
		defer out.Close()
		w = out
	}
	if err := f.WriteCSV(w, frame.Params{}); err != nil {
		return errors.Annotate(err, "failed to write CSV")
	}
	rows, cols := f.Shape()
	logging.Infof(ctx, "exported %d rows x %d columns", rows, cols)
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

	if err := export(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
