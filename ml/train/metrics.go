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

package train

import (
	"github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

// Accuracy returns the fraction of examples (columns) predicted correctly.
//
// With a single output row, a prediction is correct if it falls on the same side of 0.5 as
// the label. With more rows (one-hot labels), the row with the largest prediction must be the
// row with the largest label.
func Accuracy(predictions, labels *graph.Node) (float32, error) {
	shape := predictions.Shape()
	if !shape.Equal(labels.Shape()) {
		return 0, errors.WithStack(&shapes.ShapeMismatchError{Op: "Accuracy", Lhs: shape, Rhs: labels.Shape()})
	}
	if shape.Cols == 0 {
		return 0, errors.Errorf("Accuracy: no examples in %s", shape)
	}
	var correct int
	for col := range shape.Cols {
		if shape.Rows == 1 {
			if (predictions.Get(0, col) >= 0.5) == (labels.Get(0, col) >= 0.5) {
				correct++
			}
			continue
		}
		if argMaxRow(predictions, col) == argMaxRow(labels, col) {
			correct++
		}
	}
	return float32(correct) / float32(shape.Cols), nil
}

func argMaxRow(node *graph.Node, col int) int {
	best := 0
	for row := 1; row < node.Shape().Rows; row++ {
		if node.Get(row, col) > node.Get(best, col) {
			best = row
		}
	}
	return best
}
