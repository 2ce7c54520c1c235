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
	"math/rand/v2"

	"github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/ml/train"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

// Dataset holds examples in memory and yields them in mini-batches, optionally shuffled at
// every epoch. It implements train.Dataset.
//
// The last batch of an epoch is smaller if the number of examples is not a multiple of the
// batch size.
type Dataset struct {
	name           string
	inputs, labels [][]float32
	batchSize      int

	rng   *rand.Rand
	order []int
	next  int
}

var _ train.Dataset = (*Dataset)(nil)

// NewDataset creates a Dataset from examples given as rows: inputs[i] and labels[i] are the
// features and expected outputs of example i.
//
// It fails with train.ErrExampleCountMismatch, train.ErrInvalidBatchSize or
// train.ErrBatchTooLarge (wrapped) if the arguments don't fit together.
func NewDataset(name string, inputs, labels [][]float32, batchSize int) (*Dataset, error) {
	if len(inputs) != len(labels) {
		return nil, errors.Wrapf(train.ErrExampleCountMismatch, "dataset %q: %d inputs and %d labels",
			name, len(inputs), len(labels))
	}
	if batchSize <= 0 {
		return nil, errors.Wrapf(train.ErrInvalidBatchSize, "dataset %q: batch size %d", name, batchSize)
	}
	if batchSize > len(inputs) {
		return nil, errors.Wrapf(train.ErrBatchTooLarge, "dataset %q: batch size %d, but only %d examples",
			name, batchSize, len(inputs))
	}
	if err := checkRectangular(inputs); err != nil {
		return nil, errors.WithMessagef(err, "dataset %q inputs", name)
	}
	if err := checkRectangular(labels); err != nil {
		return nil, errors.WithMessagef(err, "dataset %q labels", name)
	}
	ds := &Dataset{
		name:      name,
		inputs:    inputs,
		labels:    labels,
		batchSize: batchSize,
		order:     make([]int, len(inputs)),
	}
	for ii := range ds.order {
		ds.order[ii] = ii
	}
	return ds, nil
}

func checkRectangular(rows [][]float32) error {
	for ii, row := range rows {
		if len(row) != len(rows[0]) {
			return errors.Errorf("example #%d has %d values, example #0 has %d", ii, len(row), len(rows[0]))
		}
	}
	return nil
}

// Shuffle configures the dataset to shuffle the examples at the start and at every Reset, with
// a random number generator seeded with seed.
//
// It returns the dataset itself, so calls can be cascaded.
func (ds *Dataset) Shuffle(seed uint64) *Dataset {
	ds.rng = rand.New(rand.NewPCG(seed, seed))
	ds.Reset()
	return ds
}

// Name implements train.Dataset.
func (ds *Dataset) Name() string { return ds.name }

// NumExamples in the dataset.
func (ds *Dataset) NumExamples() int { return len(ds.inputs) }

// BatchSize of the yielded batches.
func (ds *Dataset) BatchSize() int { return ds.batchSize }

// Reset implements train.Dataset. If shuffling is enabled, the examples are reshuffled.
func (ds *Dataset) Reset() {
	ds.next = 0
	if ds.rng != nil {
		ds.rng.Shuffle(len(ds.order), func(i, j int) {
			ds.order[i], ds.order[j] = ds.order[j], ds.order[i]
		})
	}
}

// Yield implements train.Dataset: inputs have shape (features, batch), labels (outputs, batch).
// It returns io.EOF at the end of the epoch.
func (ds *Dataset) Yield() (inputs, labels *graph.Node, err error) {
	if ds.next >= len(ds.order) {
		return nil, nil, io.EOF
	}
	end := min(ds.next+ds.batchSize, len(ds.order))
	indices := ds.order[ds.next:end]
	ds.next = end
	return columns(ds.inputs, indices), columns(ds.labels, indices), nil
}

// All returns all the examples in a single batch, in their original order: useful for evaluation.
func (ds *Dataset) All() (inputs, labels *graph.Node) {
	return Columns(ds.inputs), Columns(ds.labels)
}

// Columns returns the rows given as a matrix with one row per column: shape (features, len(rows)).
func Columns(rows [][]float32) *graph.Node {
	indices := make([]int, len(rows))
	for ii := range indices {
		indices[ii] = ii
	}
	return columns(rows, indices)
}

// columns lays out the selected rows as columns of a new leaf.
func columns(rows [][]float32, indices []int) *graph.Node {
	numFeatures := 0
	if len(rows) > 0 {
		numFeatures = len(rows[0])
	}
	batch := len(indices)
	values := make([]float32, numFeatures*batch)
	for col, exampleIdx := range indices {
		for feature, value := range rows[exampleIdx] {
			values[feature*batch+col] = value
		}
	}
	return graph.MustFromValues(values, shapes.Make(numFeatures, batch), false)
}
