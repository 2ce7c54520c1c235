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
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// LabelIndexOutOfBoundError is returned by PartitionLabels if the label column doesn't exist.
type LabelIndexOutOfBoundError struct {
	YIndex, NumColumns int
}

// Error implements the error interface.
func (e *LabelIndexOutOfBoundError) Error() string {
	return fmt.Sprintf("label index %d is out of bound for a table with %d columns", e.YIndex, e.NumColumns)
}

// PartitionLabels splits each row into its inputs (all columns but yIndex) and its label
// (column yIndex).
func PartitionLabels(rows [][]float32, yIndex int) (inputs [][]float32, labels []float32, err error) {
	if len(rows) == 0 {
		return nil, nil, errors.New("PartitionLabels: no rows")
	}
	numColumns := len(rows[0])
	if yIndex < 0 || yIndex >= numColumns {
		return nil, nil, errors.WithStack(&LabelIndexOutOfBoundError{YIndex: yIndex, NumColumns: numColumns})
	}
	inputs = make([][]float32, len(rows))
	labels = make([]float32, len(rows))
	for rowIdx, row := range rows {
		if len(row) != numColumns {
			return nil, nil, errors.Errorf("PartitionLabels: row #%d has %d columns, row #0 has %d",
				rowIdx, len(row), numColumns)
		}
		input := make([]float32, 0, numColumns-1)
		input = append(input, row[:yIndex]...)
		inputs[rowIdx] = append(input, row[yIndex+1:]...)
		labels[rowIdx] = row[yIndex]
	}
	return
}

// Number is any Go numeric type labels can be given in.
type Number interface {
	constraints.Integer | constraints.Float
}

// NumClasses returns 1 + the largest label, the number of classes needed to OneHot encode them.
func NumClasses[T Number](labels []T) int {
	if len(labels) == 0 {
		return 0
	}
	largest := labels[0]
	for _, label := range labels[1:] {
		largest = max(largest, label)
	}
	return int(largest) + 1
}

// OneHot encodes class labels in [0, numClasses) as rows of numClasses values, 1 at the
// label's position and 0 elsewhere.
func OneHot[T Number](labels []T, numClasses int) ([][]float32, error) {
	rows := make([][]float32, len(labels))
	for ii, label := range labels {
		value := float64(label)
		if value != math.Trunc(value) || value < 0 || value >= float64(numClasses) {
			return nil, errors.Errorf("OneHot: label #%d (%v) is not a class in [0, %d)", ii, label, numClasses)
		}
		rows[ii] = make([]float32, numClasses)
		rows[ii][int(value)] = 1
	}
	return rows, nil
}

// Column converts values into rows of one value each, e.g. labels of a regression or binary
// classification.
func Column[T Number](values []T) [][]float32 {
	rows := make([][]float32, len(values))
	for ii, value := range values {
		rows[ii] = []float32{float32(value)}
	}
	return rows
}
