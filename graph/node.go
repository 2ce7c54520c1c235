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
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/matgrad/matgrad/types/shapes"
)

// Node is an immutable 2-D matrix in the computation graph.
//
// It is created either by a leaf factory (Zeros, Ones, Fill, RandomUniform, FromValues) or
// by an op (Add, MatMul, Sigmoid, ...), and never changes afterwards. Derived nodes hold
// their Operator, which in turn holds the operand nodes.
type Node struct {
	id    NodeId
	shape shapes.Shape

	// data in row-major order, len(data) == shape.Size(). It is never written after the node
	// is created, so it may be shared with other nodes.
	data []float32

	// needsGrad is set explicitly for leaves, and is the OR of the operands' for derived nodes.
	needsGrad bool

	// op is nil for leaves.
	op Operator
}

// newNode creates a Node with a fresh id. It takes ownership of data.
func newNode(shape shapes.Shape, data []float32, needsGrad bool, op Operator) *Node {
	if len(data) != shape.Size() {
		exceptions.Panicf("graph: node of shape %s created with %d values", shape, len(data))
	}
	return &Node{
		id:        nextNodeId(),
		shape:     shape,
		data:      data,
		needsGrad: needsGrad,
		op:        op,
	}
}

// Id is the process-unique id of this node.
func (n *Node) Id() NodeId { return n.id }

// Shape of the node's matrix.
func (n *Node) Shape() shapes.Shape { return n.shape }

// NeedsGrad returns whether the node is (or depends on) a value for which gradients are wanted.
func (n *Node) NeedsGrad() bool { return n.needsGrad }

// Op returns the operator that produced the node, or nil for leaves.
func (n *Node) Op() Operator { return n.op }

// IsLeaf returns whether the node has no provenance.
func (n *Node) IsLeaf() bool { return n.op == nil }

// Data returns a copy of the values in row-major order.
func (n *Node) Data() []float32 { return slices.Clone(n.data) }

// Get returns the value at the given row and column. It panics if out of range.
func (n *Node) Get(row, col int) float32 {
	if row < 0 || row >= n.shape.Rows || col < 0 || col >= n.shape.Cols {
		exceptions.Panicf("Node.Get(%d, %d) out-of-bounds for %s", row, col, n)
	}
	return n.data[row*n.shape.Cols+col]
}

// Row returns a copy of the values in the given row. It panics if out of range.
func (n *Node) Row(row int) []float32 {
	if row < 0 || row >= n.shape.Rows {
		exceptions.Panicf("Node.Row(%d) out-of-bounds for %s", row, n)
	}
	cols := n.shape.Cols
	return slices.Clone(n.data[row*cols : (row+1)*cols])
}

// String implements fmt.Stringer. E.g.: "Node#12 Add (2, 3)".
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	kind := "Leaf"
	if n.op != nil {
		kind = n.op.Type().String()
	}
	return fmt.Sprintf("Node#%d %s %s", n.id, kind, n.shape)
}
