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

	"github.com/gomlx/exceptions"
	"github.com/matgrad/matgrad/types/shapes"
)

// Operator is the provenance of a derived Node: which op produced it and from which operands.
//
// It is a closed set, implemented by *BinaryOp, *ScalarOp and *UnaryOp. Operators hold the
// operand nodes themselves, which keeps them reachable for Backward.
type Operator interface {
	// Type of the operation.
	Type() OpType

	// Operands used to compute the node, in order: lhs then rhs for binary ops.
	Operands() []*Node

	fmt.Stringer
}

// BinaryOp is the provenance of Add, Sub, Mul, Div and MatMul.
//
// Lhs and Rhs are the operands actually used in the computation, that is, after broadcasting.
type BinaryOp struct {
	Kind     OpType
	Lhs, Rhs *Node
}

var _ Operator = (*BinaryOp)(nil)

// Type implements Operator.
func (op *BinaryOp) Type() OpType { return op.Kind }

// Operands implements Operator.
func (op *BinaryOp) Operands() []*Node { return []*Node{op.Lhs, op.Rhs} }

// String implements fmt.Stringer.
func (op *BinaryOp) String() string {
	return fmt.Sprintf("%s(#%d, #%d)", op.Kind, op.Lhs.id, op.Rhs.id)
}

// ScalarOp is the provenance of the elementwise ops with a constant: MulScalar and Powf.
type ScalarOp struct {
	Kind    OpType
	Operand *Node
	Scalar  float32
}

var _ Operator = (*ScalarOp)(nil)

// Type implements Operator.
func (op *ScalarOp) Type() OpType { return op.Kind }

// Operands implements Operator.
func (op *ScalarOp) Operands() []*Node { return []*Node{op.Operand} }

// String implements fmt.Stringer.
func (op *ScalarOp) String() string {
	return fmt.Sprintf("%s(#%d, %g)", op.Kind, op.Operand.id, op.Scalar)
}

// UnaryOp is the provenance of Transpose, Sigmoid, Broadcast and Sum.
//
// Target is only set for Broadcast, and Axis only for Sum.
type UnaryOp struct {
	Kind    OpType
	Operand *Node
	Target  shapes.Shape
	Axis    int
}

var _ Operator = (*UnaryOp)(nil)

// Type implements Operator.
func (op *UnaryOp) Type() OpType { return op.Kind }

// Operands implements Operator.
func (op *UnaryOp) Operands() []*Node { return []*Node{op.Operand} }

// String implements fmt.Stringer.
func (op *UnaryOp) String() string {
	switch op.Kind {
	case OpTypeTranspose, OpTypeSigmoid:
		return fmt.Sprintf("%s(#%d)", op.Kind, op.Operand.id)
	case OpTypeBroadcast:
		return fmt.Sprintf("%s(#%d -> %s)", op.Kind, op.Operand.id, op.Target)
	case OpTypeSum:
		return fmt.Sprintf("%s(#%d, axis=%d)", op.Kind, op.Operand.id, op.Axis)
	default:
		exceptions.Panicf("UnaryOp with unknown kind %s", op.Kind)
		panic(nil) // Quiet lint.
	}
}
