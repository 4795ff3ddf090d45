// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Latin1 is the encoding used by the UK parliament petition exports.
var Latin1 encoding.Encoding = charmap.ISO8859_1

// Table is an ordered collection of records sharing a set of named
// columns. Cells are stored as text; an empty cell is a missing value.
//
// Operations that change the columns of a Table return a new Table and
// leave the receiver untouched.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// NewTable returns an empty table with the given columns.
func NewTable(cols ...string) (*Table, error) {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, ok := t.index[c]; ok {
			return nil, fmt.Errorf("hexmap: duplicate column %q", c)
		}
		t.index[c] = i
	}
	return t, nil
}

// Append adds a record to the end of the table. vals must hold one
// value per column, in column order.
func (t *Table) Append(vals ...string) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("hexmap: record has %d values, table has %d columns", len(vals), len(t.cols))
	}
	t.rows = append(t.rows, append([]string(nil), vals...))
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Has reports whether col is a column of the table.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Require returns a *SchemaError for the first of cols that is not a
// column of the table.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return &SchemaError{Column: c, Columns: t.Columns()}
		}
	}
	return nil
}

// Value returns the text of record i in column col. Unknown columns
// read as missing.
func (t *Table) Value(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[i][j]
}

// Float returns the numeric value of record i in column col. ok is
// false if the cell is missing, NaN or not a number.
func (t *Table) Float(i int, col string) (v float64, ok bool) {
	s := strings.TrimSpace(t.Value(i, col))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Int returns the integer value of record i in column col. Integral
// floats such as "3.0" are accepted.
func (t *Table) Int(i int, col string) (int, error) {
	s := strings.TrimSpace(t.Value(i, col))
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("hexmap: record %d: %s value %q is not an integer", i, col, s)
	}
	return int(v), nil
}

// Strings returns a copy of column col.
func (t *Table) Strings(col string) []string {
	o := make([]string, len(t.rows))
	for i := range t.rows {
		o[i] = t.Value(i, col)
	}
	return o
}

// Floats returns column col as numbers, with NaN for missing values.
func (t *Table) Floats(col string) []float64 {
	o := make([]float64, len(t.rows))
	for i := range t.rows {
		v, ok := t.Float(i, col)
		if !ok {
			v = math.NaN()
		}
		o[i] = v
	}
	return o
}

// WithColumn returns a copy of the table with column col set to vals.
// The column is replaced if it exists and appended otherwise.
func (t *Table) WithColumn(col string, vals []string) (*Table, error) {
	if len(vals) != len(t.rows) {
		return nil, fmt.Errorf("hexmap: column %q has %d values, table has %d records", col, len(vals), len(t.rows))
	}
	cols := t.cols
	j, replace := t.index[col]
	if !replace {
		cols = append(t.Columns(), col)
		j = len(t.cols)
	}
	o, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	o.rows = make([][]string, len(t.rows))
	for i, row := range t.rows {
		nr := make([]string, len(cols))
		copy(nr, row)
		nr[j] = vals[i]
		o.rows[i] = nr
	}
	return o, nil
}

// MapColumn returns a copy of the table with f applied to every value
// of column col, which is created if it does not exist.
func (t *Table) MapColumn(col string, f func(i int, v string) string) (*Table, error) {
	vals := t.Strings(col)
	for i, v := range vals {
		vals[i] = f(i, v)
	}
	return t.WithColumn(col, vals)
}

// ReadOption configures ReadCSV.
type ReadOption func(*readConfig)

type readConfig struct {
	enc   encoding.Encoding
	comma rune
}

// WithEncoding decodes the input from enc instead of UTF-8.
func WithEncoding(enc encoding.Encoding) ReadOption {
	return func(c *readConfig) { c.enc = enc }
}

// WithComma sets the field delimiter.
func WithComma(r rune) ReadOption {
	return func(c *readConfig) { c.comma = r }
}

// ReadCSV reads a table from CSV. The first record names the columns.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Table, error) {
	cfg := readConfig{comma: ','}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.enc != nil {
		r = cfg.enc.NewDecoder().Reader(r)
	}
	cr := csv.NewReader(r)
	cr.Comma = cfg.comma
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("hexmap: csv has no header")
	}
	if err != nil {
		return nil, fmt.Errorf("hexmap: reading csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t, err := NewTable(header...)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("hexmap: reading csv: %w", err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// ReadCSVFile reads a table from the CSV file at path.
func ReadCSVFile(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadCSV(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV writes the table as UTF-8 CSV with a header record.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return err
	}
	return cw.Error()
}
