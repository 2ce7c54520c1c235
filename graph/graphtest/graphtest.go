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

// Package graphtest holds test utilities for packages that depend on the graph package.
package graphtest

import (
	"fmt"
	"testing"

	"github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/stretchr/testify/require"
)

// TestNodeFn should build its own inputs, and return both inputs and outputs.
type TestNodeFn func() (inputs, outputs []*graph.Node)

// RunTestNodeFn runs nodeFn, prints its inputs and outputs, and compares the outputs to the
// values in want, reporting back any errors in t.
//
// Each element of want is either a [][]float32 with the expected rows, or a shapes.Shape for
// an expected matrix of zeros.
//
// delta is the margin of value on the difference of output and want values that are acceptable.
// Values of delta <= 0 means only exact equality is accepted.
func RunTestNodeFn(t *testing.T, testName string, nodeFn TestNodeFn, want []any, delta float64) {
	t.Run(testName, func(t *testing.T) {
		var inputs, outputs []*graph.Node
		require.NotPanicsf(t, func() { inputs, outputs = nodeFn() }, "%s: failed to build nodes", testName)
		for ii, input := range inputs {
			if input == nil {
				t.Fatalf("%q: inputs[%d] is nil!?", testName, ii)
			}
		}
		for ii, output := range outputs {
			if output == nil {
				t.Fatalf("%q: outputs[%d] is nil!?", testName, ii)
			}
		}

		fmt.Printf("\n%s:\n", testName)
		for ii, input := range inputs {
			fmt.Printf("\tInput %d: %s %v\n", ii, input, input.Data())
		}
		if len(inputs) > 0 {
			fmt.Printf("\t======\n")
		}
		for ii, output := range outputs {
			fmt.Printf("\tOutput %d: %s %v\n", ii, output, output.Data())
		}
		require.Equalf(t, len(want), len(outputs), "%s: number of wanted results different from number of outputs", testName)
		for ii, output := range outputs {
			switch w := want[ii].(type) {
			case shapes.Shape:
				require.Truef(t, output.Shape().Equal(w), "%s: output #%d wanted shape %s", testName, ii, w)
				for _, v := range output.Data() {
					require.Zerof(t, v, "%s: output #%d wanted zeros", testName, ii)
				}
			case [][]float32:
				RequireData(t, output, w, delta)
			default:
				t.Fatalf("%q: want[%d] has unsupported type %T", testName, ii, want[ii])
			}
		}
	})
}

// RequireData checks that node has the shape and values of want, given as rows.
//
// delta <= 0 requires exact equality.
func RequireData(t *testing.T, node *graph.Node, want [][]float32, delta float64) {
	t.Helper()
	require.NotNil(t, node)
	numCols := 0
	if len(want) > 0 {
		numCols = len(want[0])
	}
	require.Truef(t, node.Shape().Equal(shapes.Make(len(want), numCols)),
		"%s: wanted shape (%d, %d)", node, len(want), numCols)
	for row, wantRow := range want {
		gotRow := node.Row(row)
		if delta <= 0 {
			require.Equalf(t, wantRow, gotRow, "%s: row #%d", node, row)
		} else {
			require.InDeltaSlicef(t, wantRow, gotRow, delta, "%s: row #%d", node, row)
		}
	}
}

// RequireGrad checks that grads holds the gradient want for node, given as rows.
func RequireGrad(t *testing.T, grads *graph.Gradients, node *graph.Node, want [][]float32, delta float64) {
	t.Helper()
	grad := grads.For(node)
	require.NotNilf(t, grad, "no gradient for %s", node)
	RequireData(t, grad, want, delta)
}
