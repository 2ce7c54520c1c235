/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package data

import (
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// Table is a numeric table, one row per example.
type Table struct {
	// Names of the columns, from the CSV header.
	Names []string

	// Rows of values, all with len(Names) columns.
	Rows [][]float32

	// Vocabularies of the label-encoded columns, indexed by column: maps each string value to
	// its code.
	Vocabularies map[int]map[string]int
}

// NumRows in the table.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns in the table.
func (t *Table) NumColumns() int { return len(t.Names) }

// ReadCSV reads the CSV file in path (a leading "~" is replaced by the home directory), with
// a header line. See ParseCSV.
func ReadCSV(path string, drop ...int) (*Table, error) {
	path = ReplaceTildeInDir(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadCSV(%q)", path)
	}
	defer func() { _ = f.Close() }()
	table, err := ParseCSV(f, drop...)
	if err != nil {
		return nil, errors.WithMessagef(err, "ReadCSV(%q)", path)
	}
	return table, nil
}

// ParseCSV reads a CSV table with a header line, dropping the columns with the indices in drop
// (e.g. an id column).
//
// Numeric columns are converted as is. String columns are label-encoded: each distinct
// (trimmed) value gets a code 0, 1, 2, ... in the order it first appears in the column.
func ParseCSV(r io.Reader, drop ...int) (*Table, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "parsing CSV")
	}
	if len(drop) > 0 {
		for _, colIdx := range drop {
			if colIdx < 0 || colIdx >= df.Ncol() {
				return nil, errors.Errorf("cannot drop column %d, table has %d columns", colIdx, df.Ncol())
			}
		}
		df = df.Drop(drop)
		if df.Err != nil {
			return nil, errors.Wrapf(df.Err, "dropping columns %v", drop)
		}
	}

	names := df.Names()
	table := &Table{
		Names:        names,
		Rows:         make([][]float32, df.Nrow()),
		Vocabularies: make(map[int]map[string]int),
	}
	for rowIdx := range table.Rows {
		table.Rows[rowIdx] = make([]float32, len(names))
	}
	for colIdx, name := range names {
		col := df.Col(name)
		if col.Type() == series.String {
			vocab := labelEncode(col.Records(), func(rowIdx int, code int) {
				table.Rows[rowIdx][colIdx] = float32(code)
			})
			table.Vocabularies[colIdx] = vocab
			continue
		}
		for rowIdx, value := range col.Float() {
			table.Rows[rowIdx][colIdx] = float32(value)
		}
	}
	return table, nil
}

// labelEncode assigns codes to values in the order they first appear, calling set for each one.
func labelEncode(values []string, set func(rowIdx int, code int)) map[string]int {
	vocab := make(map[string]int)
	for rowIdx, value := range values {
		value = strings.TrimSpace(value)
		code, found := vocab[value]
		if !found {
			code = len(vocab)
			vocab[value] = code
		}
		set(rowIdx, code)
	}
	return vocab
}
