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

// Package train implements the training of nn.Network models: a Trainer that executes one
// step of gradient descent, and a Loop that runs it over a Dataset calling the registered hooks.
package train

import "github.com/matgrad/matgrad/graph"

// Dataset yields batches of examples. Batches are laid out one example per column:
// inputs have shape (features, batch) and labels have shape (outputs, batch).
type Dataset interface {
	// Name identifies the dataset in logs and progress reports.
	Name() string

	// Yield returns the next batch. At the end of an epoch it returns io.EOF, and the
	// dataset must be Reset before yielding again.
	Yield() (inputs, labels *graph.Node, err error)

	// Reset restarts the dataset for a new epoch.
	Reset()
}
