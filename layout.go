// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"
)

// Orientation is an offset hex grid layout.
type Orientation string

// OddR is the only layout that can be drawn: pointy-topped hexagons
// where odd rows are shifted right by half a hexagon.
const OddR Orientation = "odd-r"

// unbuilt holds the offset layouts that are recognized but not drawn.
var unbuilt = map[Orientation]bool{
	"even-r": true,
	"odd-l":  true,
	"even-l": true,
}

// ParseOrientation returns the orientation named by s, ignoring case.
// Layouts other than odd-r return an error wrapping ErrNotImplemented
// if they are known and ErrUnknownOrientation otherwise.
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(strings.ToLower(s))
	switch {
	case o == OddR:
		return o, nil
	case unbuilt[o]:
		return "", fmt.Errorf("%w: %s orientation", ErrNotImplemented, o)
	default:
		return "", fmt.Errorf("%w %q is not recognized", ErrUnknownOrientation, s)
	}
}

var (
	// Radius is the circumradius of every hexagon. It gives a
	// flat-to-flat width of 1 so that neighbours in a row touch.
	Radius = 0.5 / math.Sin(math.Pi/3)

	// rowSpacing is the vertical distance between row centres.
	rowSpacing = math.Sqrt(1 - 0.5*0.5)
)

// Center returns the planar centre of the hexagon at axial column q
// and row r in the odd-r layout.
func Center(q, r int) geom.Point {
	x := float64(q)
	if r%2 != 0 {
		// Odd rows, including negative ones, shift right.
		x += 0.5
	}
	return geom.Point{X: x, Y: float64(r) * rowSpacing}
}

// Center returns the centre of the hexagon at (q, r) in the receiver's
// layout.
func (o Orientation) Center(q, r int) (geom.Point, error) {
	if o != OddR {
		_, err := ParseOrientation(string(o))
		return geom.Point{}, err
	}
	return Center(q, r), nil
}

// Hex is a single drawn hexagon.
type Hex struct {
	// Point is the geometric center of this hexagon.
	geom.Point

	// Q and R are the axial coordinates the hexagon was placed from.
	Q, R int

	// Constituency identifies the record the hexagon represents.
	Constituency string

	// Value is the value that determines the fill colour. It is zero
	// when no value column is configured and NaN when the record has
	// no value.
	Value float64
}

// Bounds returns the bounds of the hexagon.
func (h *Hex) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Max: geom.Point{X: h.X + Radius*math.Sqrt(3)/2, Y: h.Y + Radius},
		Min: geom.Point{X: h.X - Radius*math.Sqrt(3)/2, Y: h.Y - Radius},
	}
}

// Geom returns the outline of the hexagon, starting at the top vertex
// and running anticlockwise.
func (h *Hex) Geom() geom.Polygon {
	ring := make([]geom.Point, 6)
	for i := range ring {
		a := math.Pi/2 + math.Pi*2/6*float64(i)
		ring[i] = geom.Point{
			X: h.X + Radius*math.Cos(a),
			Y: h.Y + Radius*math.Sin(a),
		}
	}
	return geom.Polygon{ring}
}
