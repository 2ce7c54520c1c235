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

package nn

import (
	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

// MeanSquaredError returns the mean of (predictions - labels)^2 over all elements, as a
// (1, 1) node. Both must have the same shape, and not be empty.
func MeanSquaredError(predictions, labels *Node) (*Node, error) {
	if !predictions.Shape().Equal(labels.Shape()) {
		return nil, errors.WithStack(&shapes.ShapeMismatchError{
			Op: "MeanSquaredError", Lhs: predictions.Shape(), Rhs: labels.Shape()})
	}
	size := predictions.Shape().Size()
	if size == 0 {
		return nil, errors.Errorf("MeanSquaredError: empty predictions %s", predictions.Shape())
	}
	diff, err := Sub(predictions, labels)
	if err != nil {
		return nil, err
	}
	return diff.Powf(2).Sum(0).Sum(1).MulScalar(1 / float32(size)), nil
}
