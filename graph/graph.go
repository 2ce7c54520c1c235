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

// Package graph implements 2-D float32 matrices that remember how they were computed, and
// reverse-mode automatic differentiation over the resulting computation graph.
//
// The main elements in the package are:
//
//   - Node: an immutable matrix (shape plus row-major data), with a process-unique id and,
//     for derived nodes, the Operator that produced it. Leaves (inputs, parameters and
//     constants) have no Operator.
//
//   - Operator: the provenance of a derived Node, holding the operand nodes themselves (not
//     only their ids), so they stay reachable for the backward pass.
//
//   - Gradients: the accumulated gradients of a root node with respect to every node
//     upstream of it, as returned by Backward.
//
// The graph is built eagerly: every op computes its value immediately and returns a new
// Node referencing its operands. Nodes are shared by pointer, so the graph is a DAG, and a
// node used by several consumers receives the sum of the gradients flowing from all of them.
//
// Since every Node keeps its operands alive, a training loop that never detaches its
// parameters would grow the graph (and the cost of Backward) at every step. Use NoHistory
// on updated parameters to cut the provenance after each optimizer step.
//
// ## Error Handling
//
// Forward ops return an error when shapes are incompatible: a wrapped
// *shapes.ShapeMismatchError or *shapes.BroadcastError, with stack trace. The backward pass
// doesn't return errors: if forward shapes were validated it cannot fail, and any
// inconsistency there is a bug that panics (see github.com/gomlx/exceptions).
//
// Nothing in this package is safe for concurrent mutation, but Nodes are never mutated, so
// they can be read concurrently. The only shared state is the NodeId counter.
package graph

import (
	"sync/atomic"

	"github.com/gomlx/exceptions"
)

// NodeId is the process-unique identifier of a Node. Ids are assigned in increasing order and
// never reused.
type NodeId uint64

// InvalidNodeId is never assigned to a Node.
const InvalidNodeId = NodeId(0)

// lastNodeId is the last NodeId handed out. The first Node gets 1.
var lastNodeId atomic.Uint64

func nextNodeId() NodeId {
	return NodeId(lastNodeId.Add(1))
}

// Must panics if err is not nil, otherwise it returns node.
//
// Handy when shapes are known to be compatible:
//
//	y := graph.Must(graph.MatMul(w, x))
func Must(node *Node, err error) *Node {
	if err != nil {
		exceptions.Panicf("graph.Must: %+v", err)
	}
	return node
}
