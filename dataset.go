// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"fmt"
	"math"
)

// IDColumn is the column that identifies each constituency.
const IDColumn = "Constituency"

// requiredColumns must be present in every map table.
var requiredColumns = []string{"q", "r", IDColumn}

// dataset holds the map table shared by Map and Chart between loading
// and drawing.
type dataset struct {
	table       *Table
	valueColumn string
	orientation Orientation
}

func newDataset() dataset {
	return dataset{orientation: OddR}
}

// Load replaces the map table with t. If valueColumn is not empty it
// becomes the column that determines hexagon colours. Load fails
// without changing anything if t lacks one of the q, r and
// Constituency columns or the value column.
func (d *dataset) Load(t *Table, valueColumn string) error {
	if err := t.Require(requiredColumns...); err != nil {
		return err
	}
	if valueColumn != "" && !t.Has(valueColumn) {
		return unknownColumn(valueColumn, t)
	}
	d.table = t
	if valueColumn != "" {
		d.valueColumn = valueColumn
	}
	return nil
}

// LoadFile reads the map table from the CSV file at path and loads it.
func (d *dataset) LoadFile(path, valueColumn string, opts ...ReadOption) error {
	t, err := ReadCSVFile(path, opts...)
	if err != nil {
		return err
	}
	return d.Load(t, valueColumn)
}

// AddData left joins aux onto the map table, matching mapKey in the
// map table to dataKey in aux. Constituencies with no match in aux are
// kept with empty values.
func (d *dataset) AddData(aux *Table, mapKey, dataKey string) error {
	if d.table == nil {
		return fmt.Errorf("%w: load a map before adding data to it", ErrPrecondition)
	}
	t, err := LeftJoin(d.table, mapKey, aux, dataKey)
	if err != nil {
		return err
	}
	d.table = t
	return nil
}

// AddDataFile reads the CSV file at path and adds it with AddData.
func (d *dataset) AddDataFile(path, mapKey, dataKey string, opts ...ReadOption) error {
	if d.table == nil {
		return fmt.Errorf("%w: load a map before adding data to it", ErrPrecondition)
	}
	aux, err := ReadCSVFile(path, opts...)
	if err != nil {
		return err
	}
	return d.AddData(aux, mapKey, dataKey)
}

// Table returns the loaded map table, or nil.
func (d *dataset) Table() *Table { return d.table }

// ValueColumn returns the column that determines hexagon colours, or
// "" if hexagons are drawn in a single colour.
func (d *dataset) ValueColumn() string { return d.valueColumn }

// SetValueColumn sets the column that determines hexagon colours. On
// failure the current setting is kept.
func (d *dataset) SetValueColumn(col string) error {
	if d.table == nil {
		return fmt.Errorf("%w: load a map before setting the value column", ErrPrecondition)
	}
	if !d.table.Has(col) {
		return unknownColumn(col, d.table)
	}
	d.valueColumn = col
	return nil
}

// ClearValueColumn makes hexagons draw in a single colour.
func (d *dataset) ClearValueColumn() { d.valueColumn = "" }

// Orientation returns the hex grid layout.
func (d *dataset) Orientation() Orientation { return d.orientation }

// SetOrientation sets the hex grid layout by name. See
// ParseOrientation.
func (d *dataset) SetOrientation(name string) error {
	o, err := ParseOrientation(name)
	if err != nil {
		return err
	}
	d.orientation = o
	return nil
}

// hexes places one hexagon per record of the map table.
func (d *dataset) hexes() ([]Hex, error) {
	if d.table == nil {
		return nil, fmt.Errorf("%w: load a map before drawing it", ErrPrecondition)
	}
	if d.valueColumn != "" && !d.table.Has(d.valueColumn) {
		return nil, unknownColumn(d.valueColumn, d.table)
	}
	t := d.table
	o := make([]Hex, t.Len())
	for i := range o {
		q, err := t.Int(i, "q")
		if err != nil {
			return nil, err
		}
		r, err := t.Int(i, "r")
		if err != nil {
			return nil, err
		}
		c, err := d.orientation.Center(q, r)
		if err != nil {
			return nil, err
		}
		h := Hex{Point: c, Q: q, R: r, Constituency: t.Value(i, IDColumn)}
		if d.valueColumn != "" {
			v, ok := t.Float(i, d.valueColumn)
			if !ok {
				v = math.NaN()
			}
			h.Value = v
		}
		o[i] = h
	}
	return o, nil
}

func unknownColumn(col string, t *Table) error {
	return fmt.Errorf("%w: column %q is not in the map table; columns are %v", ErrUnknownKey, col, t.cols)
}
