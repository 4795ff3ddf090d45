// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	ggpalette "github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
)

// DefaultColormap is the colormap used when none is named.
const DefaultColormap = "viridis"

var colormaps = map[string]ggpalette.Continuous{
	"viridis": ggpalette.Viridis,
	"plasma":  newGradient("#0d0887", "#4b03a1", "#7d03a8", "#a82296", "#cb4679", "#e56b5d", "#f89441", "#fdc328", "#f0f921"),
	"inferno": newGradient("#000004", "#280b54", "#65156e", "#9f2a63", "#d44842", "#f57d15", "#fac127", "#fcffa4"),
	"magma":   newGradient("#000004", "#1c1044", "#4f127b", "#812581", "#b5367a", "#e55064", "#fb8761", "#fec287", "#fcfdbf"),
	"greys":   newGradient("#ffffff", "#000000"),
}

// gradient interpolates linearly in sRGB between evenly spaced stops.
type gradient []colorful.Color

func newGradient(hex ...string) gradient {
	g := make(gradient, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		g[i] = c
	}
	return g
}

func (g gradient) Map(x float64) color.Color {
	x = math.Max(0, math.Min(1, x))
	n := x * float64(len(g)-1)
	i := int(n)
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	return g[i].BlendRgb(g[i+1], n-float64(i))
}

// Colormaps returns the names of the available colormaps.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for n := range colormaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var (
	// MissingColour fills hexagons whose value is missing.
	MissingColour color.Color = colornames.Lightgray

	// PlainColour fills every hexagon when no value column is set.
	PlainColour color.Color = colornames.Steelblue
)

// ContinuousScale maps numbers between a minimum and a maximum onto
// a colormap. It implements gonum's palette.ColorMap so it can be
// shown in a colour bar.
type ContinuousScale struct {
	name     string
	cmap     ggpalette.Continuous
	min, max float64
	alpha    float64
}

// NewContinuousScale returns a scale over [min, max] using the named
// colormap. An empty name selects DefaultColormap.
func NewContinuousScale(name string, min, max float64) (*ContinuousScale, error) {
	if name == "" {
		name = DefaultColormap
	}
	cm, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("%w: colormap %q; colormaps are %v", ErrUnknownKey, name, Colormaps())
	}
	return &ContinuousScale{name: name, cmap: cm, min: min, max: max, alpha: 1}, nil
}

// Name returns the colormap name.
func (s *ContinuousScale) Name() string { return s.name }

// Colour returns the colour for v. Values outside of the scale take
// the colour of the nearest end and NaN takes MissingColour.
func (s *ContinuousScale) Colour(v float64) color.Color {
	if math.IsNaN(v) {
		return MissingColour
	}
	var x float64
	if s.max > s.min {
		x = scale.Linear{Min: s.min, Max: s.max, Clamp: true}.Map(v)
	}
	return s.withAlpha(s.cmap.Map(x))
}

func (s *ContinuousScale) withAlpha(c color.Color) color.Color {
	if s.alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(s.alpha * 255))
	return n
}

// At implements palette.ColorMap.
func (s *ContinuousScale) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < s.min:
		return nil, palette.ErrUnderflow
	case v > s.max:
		return nil, palette.ErrOverflow
	}
	return s.Colour(v), nil
}

// Min implements palette.ColorMap.
func (s *ContinuousScale) Min() float64 { return s.min }

// Max implements palette.ColorMap.
func (s *ContinuousScale) Max() float64 { return s.max }

// SetMin implements palette.ColorMap.
func (s *ContinuousScale) SetMin(v float64) { s.min = v }

// SetMax implements palette.ColorMap.
func (s *ContinuousScale) SetMax(v float64) { s.max = v }

// Alpha implements palette.ColorMap.
func (s *ContinuousScale) Alpha() float64 { return s.alpha }

// SetAlpha implements palette.ColorMap.
func (s *ContinuousScale) SetAlpha(a float64) { s.alpha = a }

// Palette implements palette.ColorMap, returning n colours evenly
// spaced along the colormap.
func (s *ContinuousScale) Palette(n int) palette.Palette {
	p := make(colours, n)
	for i := range p {
		var x float64
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		p[i] = s.withAlpha(s.cmap.Map(x))
	}
	return p
}

type colours []color.Color

func (c colours) Colors() []color.Color { return c }

// ResolveBounds returns the bounds of a continuous scale for values.
// Explicit bounds win; otherwise the minimum and maximum of the finite
// values are used. With no finite values the missing bounds are taken
// from [0, 1].
func ResolveBounds(values []float64, vmin, vmax *float64) (lo, hi float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	lo, hi = 0, 1
	if len(finite) > 0 {
		lo, hi = floats.Min(finite), floats.Max(finite)
	}
	if vmin != nil {
		lo = *vmin
	}
	if vmax != nil {
		hi = *vmax
	}
	return lo, hi
}

// Category is a label and the colour it is drawn with.
type Category struct {
	Label  string
	Colour color.Color
}

// CategoryScale is an ordered mapping from labels to colours, with a
// fallback colour for labels it does not hold. A CategoryScale is not
// modified once created.
type CategoryScale struct {
	cats     []Category
	index    map[string]int
	fallback color.Color
}

// NewCategoryScale returns a scale holding cats in order. Later
// entries for a repeated label are ignored.
func NewCategoryScale(fallback color.Color, cats ...Category) *CategoryScale {
	s := &CategoryScale{
		index:    make(map[string]int, len(cats)),
		fallback: fallback,
	}
	for _, c := range cats {
		s.add(c)
	}
	return s
}

func (s *CategoryScale) add(c Category) {
	if _, ok := s.index[c.Label]; ok {
		return
	}
	s.index[c.Label] = len(s.cats)
	s.cats = append(s.cats, c)
}

// PartyColours returns the colours of the main UK political parties,
// with black for any other party.
func PartyColours() *CategoryScale {
	return NewCategoryScale(colornames.Black,
		Category{"Conservative", colornames.Darkblue},
		Category{"Labour", colornames.Red},
		Category{"Lib Dem", colornames.Orange},
		Category{"Green", colornames.Green},
		Category{"Scottish National Party", colornames.Yellow},
		Category{"Plaid Cymru", colornames.Black},
		Category{"Sinn Fein", colornames.Darkgreen},
		Category{"Speaker", colornames.Lightgray},
	)
}

// Len returns the number of labels in the scale.
func (s *CategoryScale) Len() int { return len(s.cats) }

// Categories returns the labels and colours in order.
func (s *CategoryScale) Categories() []Category {
	return append([]Category(nil), s.cats...)
}

// Fallback returns the colour of labels the scale does not hold.
func (s *CategoryScale) Fallback() color.Color { return s.fallback }

// Colour returns the colour of label. ok is false if the scale does
// not hold label, in which case the fallback colour is returned.
func (s *CategoryScale) Colour(label string) (c color.Color, ok bool) {
	i, ok := s.index[label]
	if !ok {
		return s.fallback, false
	}
	return s.cats[i].Colour, true
}

// Resolve returns a scale that holds every one of labels: the
// receiver's categories followed by each unseen label, in first-seen
// order, mapped to the fallback colour. The unseen labels are also
// returned. The receiver is not modified.
func (s *CategoryScale) Resolve(labels []string) (*CategoryScale, []string) {
	o := NewCategoryScale(s.fallback, s.cats...)
	var unmapped []string
	for _, l := range labels {
		if _, ok := o.index[l]; ok {
			continue
		}
		o.add(Category{Label: l, Colour: s.fallback})
		unmapped = append(unmapped, l)
	}
	return o, unmapped
}
