// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import (
	"strconv"
)

// Columns of a UK parliament petition export and the value computed
// from them.
const (
	PetitionNameColumn  = "name"
	PetitionMPColumn    = "mp"
	PetitionCountColumn = "signature_count"
	ElectorateColumn    = "Electorate"
	SignaturePCColumn   = "signature_pc"
)

// NoMP fills the mp column of constituencies missing from a petition
// export.
const NoMP = "No MP"

// SignaturePercent left joins the petition signatures in data onto
// mapTable, matching Constituency to name, and adds a signature_pc
// column holding signatures as a percentage of the Electorate column
// of the joined table.
//
// Constituencies missing from data get the mp "No MP" and a signature
// count of 0. signature_pc is missing where the electorate is missing
// or zero.
func SignaturePercent(mapTable, data *Table) (*Table, error) {
	if err := mapTable.Require(IDColumn); err != nil {
		return nil, err
	}
	if err := data.Require(PetitionNameColumn, PetitionCountColumn); err != nil {
		return nil, err
	}
	t, err := LeftJoin(mapTable, IDColumn, data, PetitionNameColumn)
	if err != nil {
		return nil, err
	}
	// The electorate may come from either table.
	if err := t.Require(ElectorateColumn); err != nil {
		return nil, err
	}
	if t, err = t.MapColumn(PetitionMPColumn, func(_ int, v string) string {
		if v == "" {
			return NoMP
		}
		return v
	}); err != nil {
		return nil, err
	}
	if t, err = t.MapColumn(PetitionCountColumn, func(_ int, v string) string {
		if v == "" {
			return "0"
		}
		return v
	}); err != nil {
		return nil, err
	}

	pc := make([]string, t.Len())
	for i := range pc {
		n, _ := t.Float(i, PetitionCountColumn)
		e, ok := t.Float(i, ElectorateColumn)
		if !ok || e == 0 {
			continue
		}
		pc[i] = strconv.FormatFloat(100*n/e, 'g', -1, 64)
	}
	return t.WithColumn(SignaturePCColumn, pc)
}
