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
	"io"
	"os"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Format writes the node description followed by its values, one row per line. E.g.:
//
//	Node#3 Leaf (2, 2)
//	[
//	  [1 2]
//	  [3 4]
//	]
func (n *Node) Format(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(n.String())
	sb.WriteString("\n[\n")
	cols := n.shape.Cols
	for row := range n.shape.Rows {
		_, _ = fmt.Fprintf(&sb, "  %v\n", n.data[row*cols:(row+1)*cols])
	}
	sb.WriteString("]\n")
	_, err := io.WriteString(w, sb.String())
	return errors.Wrapf(err, "failed to write %s", n)
}

// Print writes the node values to the standard output. See Format.
func (n *Node) Print() {
	_ = n.Format(os.Stdout)
}

// TreeString returns the provenance tree of the node: one line per node, with operands
// indented under their consumers. A node reachable through more than one path is expanded
// only the first time, later references are marked "(see above)".
func (n *Node) TreeString() string {
	var sb strings.Builder
	visited := make(map[NodeId]bool)
	writeTree(&sb, n, 0, visited)
	return sb.String()
}

// PrintTree writes TreeString to w.
func (n *Node) PrintTree(w io.Writer) error {
	_, err := io.WriteString(w, n.TreeString())
	return errors.Wrapf(err, "failed to write tree of %s", n)
}

func writeTree(sb *strings.Builder, node *Node, depth int, visited map[NodeId]bool) {
	indent := strings.Repeat("  ", depth)
	if visited[node.id] {
		_, _ = fmt.Fprintf(sb, "%sNode#%d (see above)\n", indent, node.id)
		return
	}
	visited[node.id] = true
	_, _ = fmt.Fprintf(sb, "%sNode#%d %s %s\n", indent, node.id, opLabel(node.op), node.shape)
	if node.op == nil {
		return
	}
	for _, operand := range node.op.Operands() {
		writeTree(sb, operand, depth+1, visited)
	}
}

// opLabel describes the operator with its parameters, without the operands.
func opLabel(op Operator) string {
	if op == nil {
		return "Leaf"
	}
	switch op.Type() {
	case OpTypeAdd, OpTypeSub, OpTypeMul, OpTypeDiv, OpTypeMatMul, OpTypeTranspose, OpTypeSigmoid:
		return op.Type().String()
	case OpTypeMulScalar, OpTypePowf:
		return fmt.Sprintf("%s(%g)", op.Type(), op.(*ScalarOp).Scalar)
	case OpTypeBroadcast:
		return fmt.Sprintf("Broadcast(->%s)", op.(*UnaryOp).Target)
	case OpTypeSum:
		return fmt.Sprintf("Sum(axis=%d)", op.(*UnaryOp).Axis)
	default:
		exceptions.Panicf("no printer defined for op type %s", op.Type())
		panic(nil) // Quiet linter.
	}
}
