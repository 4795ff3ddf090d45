// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// hexJSON is the HexJSON document layout.
type hexJSON struct {
	Layout string                 `json:"layout"`
	Hexes  map[string]hexJSONCell `json:"hexes"`
}

type hexJSONCell struct {
	Name       string      `json:"n"`
	Q          json.Number `json:"q"`
	R          json.Number `json:"r"`
	Electorate json.Number `json:"e"`
	Population json.Number `json:"p"`
}

// HexJSONColumns are the columns of a map table read by ReadHexJSON.
var HexJSONColumns = []string{IDColumn, "q", "r", "Electorate", "Population"}

// ReadHexJSON reads a HexJSON document into a map table with the
// columns HexJSONColumns, one row per hex sorted by hex id. A document
// with no layout is taken to be odd-r.
func ReadHexJSON(r io.Reader) (*Table, error) {
	var doc hexJSON
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("hexmap: reading hexjson: %w", err)
	}
	if doc.Layout != "" {
		if _, err := ParseOrientation(doc.Layout); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(doc.Hexes))
	for id := range doc.Hexes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t, err := NewTable(HexJSONColumns...)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		h := doc.Hexes[id]
		if h.Q == "" || h.R == "" {
			return nil, fmt.Errorf("%w: hex %q has no q or r", ErrSchema, id)
		}
		if err := t.Append(h.Name, h.Q.String(), h.R.String(), h.Electorate.String(), h.Population.String()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReadHexJSONFile reads the HexJSON file at path.
func ReadHexJSONFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHexJSON(f)
}
