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

package report

import (
	"github.com/quakeframe/quakeframe/message"
	"github.com/quakeframe/quakeframe/usgs"
	"github.com/stockparfait/errors"
)

type Column struct {
	Kind string `json:"kind" required:"true" choices:"id,time,updated,mag,magtype,place,felt,cdi,mmi,alert,status,tsunami,sig,net,type,title,longitude,latitude,depth"`
	Name string `json:"name"` // overrides the column name in the report
	Sort string `json:"sort" choices:",ascending,descending"`
}

var _ message.Message = &Column{}

func (c *Column) InitMessage(js any) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to init Column")
	}
	return nil
}

// Header returns the column name in the report: the override when set,
// otherwise the kind itself.
func (c *Column) Header() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Kind
}

type Config struct {
	Start        usgs.Date `json:"start"`
	End          usgs.Date `json:"end"`
	MinMagnitude *float64  `json:"min magnitude"`
	MaxMagnitude *float64  `json:"max magnitude"`
	Limit        int       `json:"limit"`
	OrderBy      string    `json:"order by" choices:",time,time-asc,magnitude,magnitude-asc"`
	AlertLevel   string    `json:"alert level" choices:",green,yellow,orange,red"`
	EventType    string    `json:"event type"`
	Columns      []Column  `json:"columns"` // default: time, place, mag
}

var _ message.Message = &Config{}

func (c *Config) InitMessage(js any) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to init Config")
	}
	if len(c.Columns) == 0 {
		c.Columns = []Column{{Kind: "time"}, {Kind: "place"}, {Kind: "mag"}}
	}
	numSort := 0
	for _, col := range c.Columns {
		if col.Sort != "" {
			numSort++
		}
	}
	if numSort > 1 {
		return errors.Reason("at most one column may set sort, got %d", numSort)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		return errors.Reason("end date %s is before start date %s", c.End, c.Start)
	}
	if c.MinMagnitude != nil && c.MaxMagnitude != nil && *c.MaxMagnitude < *c.MinMagnitude {
		return errors.Reason("max magnitude %g is less than min magnitude %g",
			*c.MaxMagnitude, *c.MinMagnitude)
	}
	return nil
}
