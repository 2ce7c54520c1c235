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

import "fmt"

// ShapeMismatchError is returned when an element-wise operation or a matrix multiplication
// is invoked with operands of incompatible shapes.
//
// Cause, if set, is the error from the broadcast resolution that failed.
type ShapeMismatchError struct {
	Op       string
	Lhs, Rhs Shape
	Cause    error
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch during [%s] operation: shape %s of lhs does not match shape %s of rhs",
		e.Op, e.Lhs, e.Rhs)
}

// Unwrap returns the Cause, so errors.As can also find the *BroadcastError.
func (e *ShapeMismatchError) Unwrap() error { return e.Cause }

// BroadcastError is returned when a shape cannot be stretched into a target shape.
//
// If Mutual is set, neither shape could be stretched into the other (as in Resolve), and
// From and To hold the lhs and rhs operands, in this order.
type BroadcastError struct {
	Op       string
	From, To Shape
	Mutual   bool
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	if e.Mutual {
		return fmt.Sprintf("broadcast error during [%s] operation: shapes %s (lhs) and %s (rhs) are not compatible",
			e.Op, e.From, e.To)
	}
	return fmt.Sprintf("broadcast error during [%s] operation: could not broadcast shape %s into shape %s",
		e.Op, e.From, e.To)
}

// DataSizeError is returned when the number of values given doesn't match the shape.
type DataSizeError struct {
	Shape Shape
	Len   int
}

// Error implements the error interface.
func (e *DataSizeError) Error() string {
	return fmt.Sprintf("data has %d values, but shape %s requires %d", e.Len, e.Shape, e.Shape.Size())
}
