// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"bytes"
	"fmt"
	"html/template"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// PartyColumn is the default category column of a Chart.
const PartyColumn = "Party"

// Chart draws a map table as an interactive SVG chart: a scatter of
// hexagon centres coloured by category, with the constituency name
// shown on hover, next to a legend of the categories.
//
// A Chart is not safe for concurrent use.
type Chart struct {
	dataset

	// CategoryColumn names the column holding each constituency's
	// category.
	CategoryColumn string

	// Categories colours the categories. Labels it does not hold are
	// drawn in its fallback colour.
	Categories *CategoryScale
}

// NewChart returns a Chart that colours constituencies by party.
func NewChart() *Chart {
	return &Chart{
		dataset:        newDataset(),
		CategoryColumn: PartyColumn,
		Categories:     PartyColours(),
	}
}

// Draw lays out the chart for the loaded map table.
func (c *Chart) Draw(title string) (*ChartFigure, error) {
	hexes, err := c.hexes()
	if err != nil {
		return nil, err
	}
	if !c.table.Has(c.CategoryColumn) {
		return nil, unknownColumn(c.CategoryColumn, c.table)
	}
	cats := c.Categories
	if cats == nil {
		cats = PartyColours()
	}
	labels := c.table.Strings(c.CategoryColumn)
	scale, unmapped := cats.Resolve(labels)

	n := len(hexes)
	xs, ys := make([]float64, n), make([]float64, n)
	names := make([]string, n)
	fills := make([]color.Color, n)
	for i, h := range hexes {
		xs[i], ys[i] = h.X, h.Y
		names[i] = h.Constituency
		fills[i], _ = scale.Colour(labels[i])
	}
	view := gg.NewPlot(new(table.Builder).
		Add("x", xs).
		Add("y", ys).
		Add("colour", fills).
		Add(IDColumn, names).
		Done())
	view.Add(gg.LayerPoints{X: "x", Y: "y", Color: "colour"})
	view.Add(gg.LayerTooltips{X: "x", Y: "y", Label: IDColumn})
	if title != "" {
		view.Add(gg.Title(title))
	}

	// One legend entry per category present in the data.
	var present []string
	seen := make(map[string]bool)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			present = append(present, l)
		}
	}
	lx := make([]string, len(present))
	lfills := make([]color.Color, len(present))
	for i, l := range present {
		lfills[i], _ = scale.Colour(l)
	}
	legend := gg.NewPlot(new(table.Builder).
		Add("x", lx).
		Add(c.CategoryColumn, present).
		Add("colour", lfills).
		Done())
	legend.Add(gg.LayerPoints{X: "x", Y: c.CategoryColumn, Color: "colour"})
	legend.Add(gg.AxisLabel("x", ""))

	return &ChartFigure{
		view:     view,
		legend:   legend,
		hexes:    hexes,
		scale:    scale,
		unmapped: unmapped,
		title:    title,
	}, nil
}

// ChartFigure is a drawn Chart.
type ChartFigure struct {
	view, legend *gg.Plot
	hexes        []Hex
	scale        *CategoryScale
	unmapped     []string
	title        string
}

// Hexes returns the plotted hexagon centres.
func (f *ChartFigure) Hexes() []Hex { return f.hexes }

// Categories returns the scale the chart was coloured with, including
// any labels added for categories the chart's scale did not hold.
func (f *ChartFigure) Categories() *CategoryScale { return f.scale }

// Unmapped returns the categories drawn in the fallback colour.
func (f *ChartFigure) Unmapped() []string { return f.unmapped }

// WriteMapSVG writes the scatter view as SVG.
func (f *ChartFigure) WriteMapSVG(w io.Writer, width, height int) error {
	return f.view.WriteSVG(w, width, height)
}

// WriteLegendSVG writes the legend view as SVG.
func (f *ChartFigure) WriteLegendSVG(w io.Writer, width, height int) error {
	return f.legend.WriteSVG(w, width, height)
}

// legendWidth is the width of the legend view relative to the height
// of the chart.
const legendWidth = 0.4

var page = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script>
if (!document.rootElement) {
	Object.defineProperty(document, "rootElement", {
		get: function() { return document.querySelector("svg"); }
	});
}
</script>
</head>
<body>
<div style="display:flex;align-items:flex-start">
<div>{{.Map}}</div>
<div>{{.Legend}}</div>
</div>
</body>
</html>
`))

// WriteHTML writes a page holding the scatter and legend views side by
// side. width and height size the scatter view. The tooltip script of
// the scatter view looks up its own root element, so the page points
// document.rootElement at the first inline SVG.
func (f *ChartFigure) WriteHTML(w io.Writer, width, height int) error {
	var view, legend bytes.Buffer
	if err := f.WriteMapSVG(&view, width, height); err != nil {
		return err
	}
	if err := f.WriteLegendSVG(&legend, int(float64(height)*legendWidth), height); err != nil {
		return err
	}
	return page.Execute(w, struct {
		Title       string
		Map, Legend template.HTML
	}{f.title, template.HTML(view.String()), template.HTML(legend.String())})
}

// Save writes the chart to path: an HTML page for .html and .htm, or
// the scatter view alone for .svg.
func (f *ChartFigure) Save(path string, width, height int) (err error) {
	var write func(io.Writer, int, int) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".html", ".htm":
		write = f.WriteHTML
	case ".svg":
		write = f.WriteMapSVG
	default:
		return fmt.Errorf("%w: chart format %q", ErrUnknownKey, ext)
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); err == nil {
			err = e
		}
	}()
	return write(w, width, height)
}
