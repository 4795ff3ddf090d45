// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema is returned when a table lacks a required column.
	ErrSchema = errors.New("hexmap: missing required column")

	// ErrPrecondition is returned when an operation is called before
	// the step it depends on, such as saving before drawing.
	ErrPrecondition = errors.New("hexmap: precondition not met")

	// ErrUnknownKey is returned when a column, colormap or orientation
	// name is not recognized.
	ErrUnknownKey = errors.New("hexmap: unknown key")

	// ErrUnknownOrientation is returned for orientation names that are
	// not hex grid layouts at all. It wraps ErrUnknownKey.
	ErrUnknownOrientation = fmt.Errorf("%w: orientation", ErrUnknownKey)

	// ErrNotImplemented is returned for recognized hex grid layouts
	// that cannot be drawn yet.
	ErrNotImplemented = errors.New("hexmap: not implemented")

	// ErrInvalidBounds is returned when the minimum of a colour scale
	// is above its maximum.
	ErrInvalidBounds = errors.New("hexmap: invalid colour scale bounds")

	// ErrColumnOverlap is returned when a join would produce two
	// columns with the same name.
	ErrColumnOverlap = errors.New("hexmap: columns overlap")
)

// SchemaError reports a table that is missing a required column.
type SchemaError struct {
	// Column is the missing column.
	Column string
	// Columns are the columns the table does have.
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("hexmap: %s is not a column in the map table; columns are [%s]",
		e.Column, strings.Join(e.Columns, ", "))
}

// Unwrap makes SchemaError match ErrSchema.
func (e *SchemaError) Unwrap() error { return ErrSchema }
