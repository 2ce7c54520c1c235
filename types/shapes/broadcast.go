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

package shapes

import (
	"github.com/pkg/errors"
)

// Resolve returns the shape of an element-wise binary operation between operands of
// shapes lhs and rhs.
//
// Rules, per axis:
//
//   - Equal dimensions are kept.
//   - A dimension of 1 stretches to match the other operand's dimension.
//   - Anything else is incompatible.
//
// So (1, 1) is compatible with any shape. Examples:
//
//	(3, 1) and (3, 5) -> (3, 5)
//	(1, 5) and (3, 5) -> (3, 5)
//	(1, 5) and (3, 1) -> (3, 5)
//	(3, 4) and (3, 5) -> *BroadcastError
//
// The returned error wraps a *BroadcastError, use errors.As to inspect it.
func Resolve(lhs, rhs Shape) (Shape, error) {
	rows, okRows := resolveDim(lhs.Rows, rhs.Rows)
	cols, okCols := resolveDim(lhs.Cols, rhs.Cols)
	if !okRows || !okCols {
		return Shape{}, errors.WithStack(&BroadcastError{Op: "resolve", From: lhs, To: rhs, Mutual: true})
	}
	return Shape{Rows: rows, Cols: cols}, nil
}

func resolveDim(a, b int) (int, bool) {
	switch {
	case a == b:
		return a, true
	case a == 1:
		return b, true
	case b == 1:
		return a, true
	}
	return 0, false
}

// CanBroadcastTo returns whether a matrix of shape from can be stretched into shape to:
// each axis must either match or be 1 in from.
func CanBroadcastTo(from, to Shape) bool {
	return (from.Rows == to.Rows || from.Rows == 1) && (from.Cols == to.Cols || from.Cols == 1)
}

// BroadcastAxes returns the axes of from that are stretched when broadcasting into to.
// It assumes CanBroadcastTo(from, to).
func BroadcastAxes(from, to Shape) (axes []int) {
	if from.Rows != to.Rows {
		axes = append(axes, 0)
	}
	if from.Cols != to.Cols {
		axes = append(axes, 1)
	}
	return
}
