// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/vg"
)

// Map draws a map table as equally sized hexagons, one per
// constituency, and saves the result as an image.
//
// A Map moves through loading, optional joining, drawing, annotating
// and saving; the methods return an error wrapping ErrPrecondition
// when called out of that order. A Map is not safe for concurrent use.
type Map struct {
	dataset

	fig     *Figure
	saveDir string
}

// New returns a Map with no table loaded.
func New() *Map {
	return &Map{dataset: newDataset()}
}

// Bound returns a pointer to v, for use in DrawOptions.
func Bound(v float64) *float64 { return &v }

// TitleStyle sets the appearance of a map title.
type TitleStyle struct {
	// Size is the font size. Zero keeps the default.
	Size vg.Length

	// Color is the text colour. nil keeps the default.
	Color color.Color
}

// DrawOptions configure Draw. The zero value draws with the default
// colormap, the data range and no title.
type DrawOptions struct {
	// VMin and VMax fix the ends of the colour scale. When nil they
	// are taken from the value column. Draw fails if the resolved
	// minimum is above the maximum.
	VMin, VMax *float64

	// Title is drawn above the map if it is not empty.
	Title      string
	TitleStyle TitleStyle

	// Colormap names the continuous colormap. See Colormaps.
	Colormap string

	// CategoryColumn, if set and no value column is configured,
	// colours hexagons by the label in that column using Categories,
	// or PartyColours if Categories is nil.
	CategoryColumn string
	Categories     *CategoryScale

	// OutlineColumn, if set, draws the joint outline of the hexagons
	// sharing each value of that column.
	OutlineColumn string
}

// Draw draws the loaded map and returns the figure. Drawing again
// replaces the previous figure.
func (m *Map) Draw(opts DrawOptions) (*Figure, error) {
	hexes, err := m.hexes()
	if err != nil {
		return nil, err
	}

	f := &Figure{
		hexes: hexes,
		fills: make([]color.Color, len(hexes)),
		title: opts.Title,
	}

	if len(hexes) == 0 {
		f.bounds = geom.Bounds{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 1, Y: 1}}
	} else {
		qs := make([]float64, len(hexes))
		ys := make([]float64, len(hexes))
		for i, h := range hexes {
			qs[i], ys[i] = float64(h.Q), h.Y
		}
		f.bounds = geom.Bounds{
			Min: geom.Point{X: floats.Min(qs) - 1, Y: floats.Min(ys) - 1},
			Max: geom.Point{X: floats.Max(qs) + 1, Y: floats.Max(ys) + 1},
		}
	}

	switch {
	case m.valueColumn != "":
		values := make([]float64, len(hexes))
		for i, h := range hexes {
			values[i] = h.Value
		}
		lo, hi := ResolveBounds(values, opts.VMin, opts.VMax)
		if lo > hi {
			return nil, fmt.Errorf("%w: minimum %g is above maximum %g", ErrInvalidBounds, lo, hi)
		}
		cs, err := NewContinuousScale(opts.Colormap, lo, hi)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			f.fills[i] = cs.Colour(v)
		}
		f.scale = cs

	case opts.CategoryColumn != "":
		if !m.table.Has(opts.CategoryColumn) {
			return nil, unknownColumn(opts.CategoryColumn, m.table)
		}
		cats := opts.Categories
		if cats == nil {
			cats = PartyColours()
		}
		labels := m.table.Strings(opts.CategoryColumn)
		f.categories, f.unmapped = cats.Resolve(labels)
		for i, l := range labels {
			f.fills[i], _ = f.categories.Colour(l)
		}

	default:
		for i := range f.fills {
			f.fills[i] = PlainColour
		}
	}

	if opts.OutlineColumn != "" {
		if !m.table.Has(opts.OutlineColumn) {
			return nil, unknownColumn(opts.OutlineColumn, m.table)
		}
		f.outlines, err = groupOutlines(hexes, m.table.Strings(opts.OutlineColumn))
		if err != nil {
			return nil, err
		}
	}

	f.build(opts.TitleStyle)
	m.fig = f
	return f, nil
}

// Figure returns the most recently drawn figure, or nil.
func (m *Map) Figure() *Figure { return m.fig }

// Annotate adds text to the drawn figure and returns it.
func (m *Map) Annotate(text string, opts AnnotateOptions) (*Figure, error) {
	if m.fig == nil {
		return nil, fmt.Errorf("%w: draw the map before adding an annotation to it", ErrPrecondition)
	}
	if err := m.fig.Annotate(text, opts); err != nil {
		return nil, err
	}
	return m.fig, nil
}

// SaveDir returns the directory that saved images are written to.
func (m *Map) SaveDir() string { return m.saveDir }

// SetSaveDir makes dir the directory that saved images are written
// to, creating it if it does not exist.
func (m *Map) SetSaveDir(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	m.saveDir = dir
	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("hexmap: creating output directory: %w", err)
	}
	return nil
}

// Save writes the drawn figure to name, joined to the save directory
// if one is set, and returns the path written. A non-empty opts.Dir
// first becomes the save directory, as with SetSaveDir. The image
// format follows the extension of name.
func (m *Map) Save(name string, opts SaveOptions) (string, error) {
	if m.fig == nil {
		return "", fmt.Errorf("%w: draw the map before attempting to save the figure", ErrPrecondition)
	}
	if opts.Dir != "" {
		if err := m.SetSaveDir(opts.Dir); err != nil {
			return "", err
		}
	}
	path := name
	if m.saveDir != "" {
		path = filepath.Join(m.saveDir, name)
	}
	if err := m.fig.Save(path, opts); err != nil {
		return "", err
	}
	return path, nil
}
