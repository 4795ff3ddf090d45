// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hexmap draws hexagonal cartograms of electoral constituencies.
// Each constituency is a regular hexagon of the same size placed on an
// offset hex grid, so that densely populated areas are not visually
// swamped by large rural ones. Maps are loaded from tables of axial
// grid coordinates, optionally joined with a dataset that determines
// the colour of each hexagon, and written as static images or as
// interactive SVG charts.
package hexmap
