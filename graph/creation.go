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

package graph

import (
	"math/rand/v2"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

func assertValidShape(shape shapes.Shape) {
	if !shape.Ok() {
		exceptions.Panicf("invalid shape %s for new node", shape)
	}
}

// Zeros creates a leaf of the given shape filled with 0.
func Zeros(shape shapes.Shape, needsGrad bool) *Node {
	return Fill(shape, 0, needsGrad)
}

// Ones creates a leaf of the given shape filled with 1.
func Ones(shape shapes.Shape, needsGrad bool) *Node {
	return Fill(shape, 1, needsGrad)
}

// Fill creates a leaf of the given shape with every element set to value.
func Fill(shape shapes.Shape, value float32, needsGrad bool) *Node {
	assertValidShape(shape)
	data := make([]float32, shape.Size())
	if value != 0 {
		for ii := range data {
			data[ii] = value
		}
	}
	return newNode(shape, data, needsGrad, nil)
}

// RandomUniform creates a leaf with values sampled uniformly from [low, high), using the
// process-wide random number generator.
//
// Use RandomUniformWithRNG for reproducible values.
func RandomUniform(low, high float32, shape shapes.Shape, needsGrad bool) *Node {
	return RandomUniformWithRNG(nil, low, high, shape, needsGrad)
}

// RandomUniformWithRNG creates a leaf with values sampled uniformly from [low, high), using
// the given rng. If rng is nil, the process-wide generator is used.
func RandomUniformWithRNG(rng *rand.Rand, low, high float32, shape shapes.Shape, needsGrad bool) *Node {
	assertValidShape(shape)
	sample := rand.Float32
	if rng != nil {
		sample = rng.Float32
	}
	data := make([]float32, shape.Size())
	width := high - low
	for ii := range data {
		data[ii] = low + width*sample()
	}
	return newNode(shape, data, needsGrad, nil)
}

// FromValues creates a leaf from values in row-major order. The values are copied.
//
// It returns a *shapes.DataSizeError if len(values) doesn't match the shape.
func FromValues(values []float32, shape shapes.Shape, needsGrad bool) (*Node, error) {
	if !shape.Ok() {
		return nil, errors.Errorf("FromValues: invalid shape %s", shape)
	}
	if len(values) != shape.Size() {
		return nil, errors.WithStack(&shapes.DataSizeError{Shape: shape, Len: len(values)})
	}
	return newNode(shape, slices.Clone(values), needsGrad, nil), nil
}

// MustFromValues is like FromValues, but panics on error.
func MustFromValues(values []float32, shape shapes.Shape, needsGrad bool) *Node {
	node, err := FromValues(values, shape, needsGrad)
	if err != nil {
		exceptions.Panicf("MustFromValues: %+v", err)
	}
	return node
}

// FromRows creates a leaf from a slice of rows. All rows must have the same length.
//
// An empty rows slice yields a (0, 0) node.
func FromRows(rows [][]float32, needsGrad bool) (*Node, error) {
	numCols := 0
	if len(rows) > 0 {
		numCols = len(rows[0])
	}
	data := make([]float32, 0, len(rows)*numCols)
	for rowIdx, row := range rows {
		if len(row) != numCols {
			return nil, errors.Errorf("FromRows: row #%d has %d values, but row #0 has %d", rowIdx, len(row), numCols)
		}
		data = append(data, row...)
	}
	return newNode(shapes.Make(len(rows), numCols), data, needsGrad, nil), nil
}
