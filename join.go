// Copyright ©2019 The hexmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexmap

import "fmt"

// LeftJoin joins right onto left where left's leftKey column equals
// right's rightKey column. Every record of left is kept, in order;
// records with no match get empty values for right's columns, and
// records with several matches appear once per match.
//
// The result holds leftKey, then left's other columns, then right's
// columns other than rightKey.
func LeftJoin(left *Table, leftKey string, right *Table, rightKey string) (*Table, error) {
	return join(left, leftKey, right, rightKey, true)
}

// InnerJoin is like LeftJoin but drops records of left that have no
// match in right.
func InnerJoin(left *Table, leftKey string, right *Table, rightKey string) (*Table, error) {
	return join(left, leftKey, right, rightKey, false)
}

func join(left *Table, leftKey string, right *Table, rightKey string, keepUnmatched bool) (*Table, error) {
	if !left.Has(leftKey) {
		return nil, fmt.Errorf("%w: join column %q is not in the map table; columns are %v", ErrUnknownKey, leftKey, left.cols)
	}
	if !right.Has(rightKey) {
		return nil, fmt.Errorf("%w: join column %q is not in the data table; columns are %v", ErrUnknownKey, rightKey, right.cols)
	}

	cols := []string{leftKey}
	var leftCols, rightCols []int
	for i, c := range left.cols {
		if c != leftKey {
			cols = append(cols, c)
			leftCols = append(leftCols, i)
		}
	}
	for i, c := range right.cols {
		if c == rightKey {
			continue
		}
		if left.Has(c) {
			return nil, fmt.Errorf("%w: %q is in both tables", ErrColumnOverlap, c)
		}
		cols = append(cols, c)
		rightCols = append(rightCols, i)
	}
	o, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}

	lk, rk := left.index[leftKey], right.index[rightKey]
	matches := make(map[string][]int)
	for i, row := range right.rows {
		matches[row[rk]] = append(matches[row[rk]], i)
	}
	for _, row := range left.rows {
		base := make([]string, 1, len(cols))
		base[0] = row[lk]
		for _, j := range leftCols {
			base = append(base, row[j])
		}
		m := matches[row[lk]]
		if len(m) == 0 {
			if keepUnmatched {
				o.rows = append(o.rows, append(base, make([]string, len(rightCols))...))
			}
			continue
		}
		for _, ri := range m {
			nr := make([]string, len(base), len(cols))
			copy(nr, base)
			for _, j := range rightCols {
				nr = append(nr, right.rows[ri][j])
			}
			o.rows = append(o.rows, nr)
		}
	}
	return o, nil
}
