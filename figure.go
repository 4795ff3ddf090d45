// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Figure is a drawn hex map. It is created by Map.Draw, can have text
// added with Annotate and is written out with Save or WriteTo.
type Figure struct {
	hexes []Hex
	fills []color.Color

	// scale is nil when hexagons are not coloured by value, in which
	// case there is no colour bar.
	scale *ContinuousScale

	categories *CategoryScale
	unmapped   []string

	outlines map[string]geom.Polygon

	bounds geom.Bounds
	title  string

	annotations []Annotation

	plot *plot.Plot
}

// Hexes returns the hexagons in the order of the map table.
func (f *Figure) Hexes() []Hex { return f.hexes }

// Fills returns the fill colour of each hexagon.
func (f *Figure) Fills() []color.Color { return f.fills }

// ColourBar returns the scale shown in the colour bar. ok is false if
// the figure has no colour bar.
func (f *Figure) ColourBar() (s *ContinuousScale, ok bool) {
	return f.scale, f.scale != nil
}

// Categories returns the category scale hexagons were coloured with,
// or nil.
func (f *Figure) Categories() *CategoryScale { return f.categories }

// Unmapped returns the category labels that were drawn with the
// fallback colour.
func (f *Figure) Unmapped() []string { return f.unmapped }

// Outlines returns the group outlines, keyed by group.
func (f *Figure) Outlines() map[string]geom.Polygon { return f.outlines }

// Bounds returns the extent of the plot area in map coordinates.
func (f *Figure) Bounds() geom.Bounds { return f.bounds }

// Title returns the title, or "".
func (f *Figure) Title() string { return f.title }

// Annotations returns the text added with Annotate.
func (f *Figure) Annotations() []Annotation {
	return append([]Annotation(nil), f.annotations...)
}

var (
	hexLineStyle     = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
	outlineLineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(1.5)}
)

// build assembles the gonum plot for the figure.
func (f *Figure) build(ts TitleStyle) {
	p := plot.New()
	p.HideAxes()
	if f.title != "" {
		p.Title.Text = f.title
		if ts.Size > 0 {
			p.Title.TextStyle.Font.Size = ts.Size
		}
		if ts.Color != nil {
			p.Title.TextStyle.Color = ts.Color
		}
	}
	hc := &hexCollection{
		polys:     make([]geom.Polygon, len(f.hexes)),
		fills:     f.fills,
		LineStyle: hexLineStyle,
	}
	for i := range f.hexes {
		hc.polys[i] = f.hexes[i].Geom()
	}
	p.Add(hc)
	if len(f.outlines) > 0 {
		ol := &outlineLayer{LineStyle: outlineLineStyle}
		for _, g := range sortedKeys(f.outlines) {
			ol.polys = append(ol.polys, f.outlines[g])
		}
		p.Add(ol)
	}
	f.plot = p
	f.applyBounds()
}

// applyBounds fixes the plot area, which plot.Add widens to fit the
// data range of each plotter.
func (f *Figure) applyBounds() {
	f.plot.X.Min, f.plot.X.Max = f.bounds.Min.X, f.bounds.Max.X
	f.plot.Y.Min, f.plot.Y.Max = f.bounds.Min.Y, f.bounds.Max.Y
}

// Annotation is text placed on a figure.
type Annotation struct {
	Text string
	At   geom.Point
}

// AnnotateOptions place and style an annotation.
type AnnotateOptions struct {
	// X and Y give the position in map coordinates.
	X, Y float64

	// Constituency, if set, places the text at the centre of that
	// constituency's hexagon instead of at X, Y.
	Constituency string

	// Size is the font size. Zero keeps the default.
	Size vg.Length

	// Color is the text colour. nil keeps the default.
	Color color.Color
}

// Annotate adds text to the figure.
func (f *Figure) Annotate(text string, opts AnnotateOptions) error {
	at := geom.Point{X: opts.X, Y: opts.Y}
	if opts.Constituency != "" {
		found := false
		for _, h := range f.hexes {
			if h.Constituency == opts.Constituency {
				at, found = h.Point, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: constituency %q is not on the map", ErrUnknownKey, opts.Constituency)
		}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: at.X, Y: at.Y}},
		Labels: []string{text},
	})
	if err != nil {
		return err
	}
	if opts.Size > 0 {
		l.TextStyle[0].Font.Size = opts.Size
	}
	if opts.Color != nil {
		l.TextStyle[0].Color = opts.Color
	}
	f.plot.Add(l)
	f.applyBounds()
	f.annotations = append(f.annotations, Annotation{Text: text, At: at})
	return nil
}

// SaveOptions control the size and location of a saved image.
type SaveOptions struct {
	// Dir is the directory to save into. See Map.Save.
	Dir string

	// Width and Height are the image dimensions. They default to
	// DefaultSize.
	Width, Height vg.Length

	// DPI is the resolution of raster images. It defaults to
	// DefaultDPI.
	DPI int
}

const (
	// DefaultSize is the default width and height of a figure.
	DefaultSize = 8 * vg.Inch

	// DefaultDPI is the default resolution of raster images.
	DefaultDPI = 100
)

func (o SaveOptions) withDefaults() SaveOptions {
	if o.Width <= 0 {
		o.Width = DefaultSize
	}
	if o.Height <= 0 {
		o.Height = DefaultSize
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	return o
}

// Save writes the figure to path in the format given by its
// extension: png, jpg, jpeg, tif, tiff, svg, pdf or eps.
func (f *Figure) Save(path string, opts SaveOptions) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	c, err := newCanvas(format, opts.withDefaults())
	if err != nil {
		return err
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
	f.Draw(draw.New(c))
	_, err = c.WriteTo(w)
	return err
}

// WriteTo writes the figure to w in the given format.
func (f *Figure) WriteTo(w io.Writer, format string, opts SaveOptions) (int64, error) {
	c, err := newCanvas(format, opts.withDefaults())
	if err != nil {
		return 0, err
	}
	f.Draw(draw.New(c))
	return c.WriteTo(w)
}

func newCanvas(format string, o SaveOptions) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(o.Width, o.Height), vgimg.UseDPI(o.DPI))
	}
	switch strings.ToLower(format) {
	case "png":
		return &vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return &vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return &vgimg.TiffCanvas{Canvas: raster()}, nil
	case "svg":
		return vgsvg.New(o.Width, o.Height), nil
	case "pdf":
		return vgpdf.New(o.Width, o.Height), nil
	case "eps":
		return vgeps.New(o.Width, o.Height), nil
	}
	return nil, fmt.Errorf("%w: image format %q", ErrUnknownKey, format)
}

// colourBarWidth is the fraction of the figure width given to the
// colour bar.
const colourBarWidth = 0.12

// Draw draws the figure onto dc. When the figure has a colour bar it
// takes a strip on the right, half the height of the figure.
func (f *Figure) Draw(dc draw.Canvas) {
	if f.scale == nil {
		f.plot.Draw(dc)
		return
	}
	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y
	barW := w * colourBarWidth
	f.plot.Draw(draw.Crop(dc, 0, -barW, 0, 0))
	f.colourBarPlot().Draw(draw.Crop(dc, w-barW, 0, h/4, -h/4))
}

func (f *Figure) colourBarPlot() *plot.Plot {
	cm := *f.scale
	if cm.max == cm.min {
		cm.min, cm.max = cm.min-0.5, cm.max+0.5
	}
	p := plot.New()
	p.HideX()
	p.Add(&colourBar{scale: &cm, n: colourBarSteps})
	return p
}

// colourBarSteps is the number of bands in the colour bar.
const colourBarSteps = 128

// colourBar draws a vertical colour bar as filled bands.
type colourBar struct {
	scale *ContinuousScale
	n     int
}

// Plot implements the plot.Plotter interface.
func (cb *colourBar) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cols := cb.scale.Palette(cb.n).Colors()
	step := (cb.scale.max - cb.scale.min) / float64(len(cols))
	x0, x1 := trX(0), trX(1)
	for i, col := range cols {
		y0 := trY(cb.scale.min + float64(i)*step)
		y1 := trY(cb.scale.min + float64(i+1)*step)
		band := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
		c.FillPolygon(col, c.ClipPolygonXY(band))
	}
}

// DataRange implements the plot.DataRanger interface.
func (cb *colourBar) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, cb.scale.min, cb.scale.max
}

// hexCollection draws a set of filled polygons as a single plotter.
type hexCollection struct {
	polys []geom.Polygon
	fills []color.Color
	draw.LineStyle
}

// Plot implements the plot.Plotter interface.
func (hc *hexCollection) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, poly := range hc.polys {
		for _, ring := range poly {
			pts := make([]vg.Point, len(ring))
			for j, p := range ring {
				pts[j] = vg.Point{X: trX(p.X), Y: trY(p.Y)}
			}
			c.FillPolygon(hc.fills[i], c.ClipPolygonXY(pts))
			c.StrokeLines(hc.LineStyle, c.ClipLinesXY(append(pts, pts[0]))...)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (hc *hexCollection) DataRange() (xmin, xmax, ymin, ymax float64) {
	return polygonsRange(hc.polys)
}

// outlineLayer strokes polygon outlines without filling them.
type outlineLayer struct {
	polys []geom.Polygon
	draw.LineStyle
}

// Plot implements the plot.Plotter interface.
func (ol *outlineLayer) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, poly := range ol.polys {
		for _, ring := range poly {
			pts := make([]vg.Point, len(ring))
			for j, p := range ring {
				pts[j] = vg.Point{X: trX(p.X), Y: trY(p.Y)}
			}
			c.StrokeLines(ol.LineStyle, c.ClipLinesXY(pts)...)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (ol *outlineLayer) DataRange() (xmin, xmax, ymin, ymax float64) {
	return polygonsRange(ol.polys)
}

func polygonsRange(polys []geom.Polygon) (xmin, xmax, ymin, ymax float64) {
	b := geom.NewBounds()
	for _, p := range polys {
		b.Extend(p.Bounds())
	}
	return b.Min.X, b.Max.X, b.Min.Y, b.Max.Y
}
