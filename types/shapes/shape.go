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

// Package shapes defines Shape, the dimensions of a 2-D matrix, and the broadcasting rules
// used by the element-wise operations in the graph package.
//
// Shapes are always rank-2: (rows, cols). Either dimension may be 0, in which case the
// matrix is empty.
//
// ## Glossary
//
//   - Axis: index of a dimension. Axis 0 is rows, axis 1 is columns.
//   - Broadcast: implicit expansion of an axis of dimension 1 to match the other operand.
//
// Example: `shapes.Make(2, 3)` is the shape of `[][]float32{{0, 1, 2}, {3, 4, 5}}`, printed
// as `(2, 3)`.
package shapes

import (
	"fmt"

	"github.com/gomlx/exceptions"
)

// Shape of a matrix: number of rows and columns.
type Shape struct {
	Rows, Cols int
}

// Make returns a Shape with the given dimensions. It panics for negative dimensions.
func Make(rows, cols int) Shape {
	s := Shape{Rows: rows, Cols: cols}
	if !s.Ok() {
		exceptions.Panicf("shapes.Make(%d, %d): cannot create a shape with a negative dimension", rows, cols)
	}
	return s
}

// Ok returns whether both dimensions are non-negative.
func (s Shape) Ok() bool { return s.Rows >= 0 && s.Cols >= 0 }

// Dim returns the dimension of the given axis (0 for rows, 1 for columns).
// It panics for any other axis.
func (s Shape) Dim(axis int) int {
	switch axis {
	case 0:
		return s.Rows
	case 1:
		return s.Cols
	}
	exceptions.Panicf("Shape.Dim(%d) out-of-bounds for shape %s", axis, s)
	return 0
}

// Shape returns itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

// Size returns the number of elements of a matrix of this shape.
func (s Shape) Size() int {
	return s.Rows * s.Cols
}

// Equal compares two shapes.
func (s Shape) Equal(s2 Shape) bool {
	return s.Rows == s2.Rows && s.Cols == s2.Cols
}

// Transposed returns the shape with rows and columns swapped.
func (s Shape) Transposed() Shape {
	return Shape{Rows: s.Cols, Cols: s.Rows}
}

// IsScalar returns whether the shape is (1, 1).
func (s Shape) IsScalar() bool {
	return s.Rows == 1 && s.Cols == 1
}
