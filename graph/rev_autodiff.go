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
	"github.com/gomlx/exceptions"
	"github.com/matgrad/matgrad/types/shapes"
	"k8s.io/klog/v2"
)

// This file implements reverse-mode automatic differentiation, using VJPs (Vector Jacobian Products).
//
// Conventions:
//
//   - root: the node whose gradient is being computed. Its own gradient is seeded with ones,
//     so for a non-(1, 1) root the result is the gradient of the sum of its elements.
//   - v: the accumulated gradient of the root with respect to the node being processed. Once
//     every consumer of a node has contributed, v is complete and the node can push its
//     contributions to its operands. The topological order guarantees that.

// VJP returns the contribution of the node's gradient v to each of the node's operands, in the
// order of Operator.Operands. Each contribution must have the shape of its operand.
type VJP func(node, v *Node) []*Node

// Backward computes the gradient of root with respect to every node upstream of it.
//
// The gradient of root itself is seeded with Ones(root.Shape()). Nodes that receive no
// gradient are skipped. The returned Gradients hold one entry per visited node, including
// root and all leaves: query it with Gradients.For(param).
//
// Forward ops validate shapes, so this never fails for graphs built by this package. Any
// inconsistency found is a bug, and it panics.
func Backward(root *Node) *Gradients {
	grads := NewGradients()
	if root == nil {
		return grads
	}
	order := TopologicalOrder(root)
	klog.V(2).Infof("Backward(%s): %d nodes", root, len(order))
	grads.Insert(root, Ones(root.shape, false))
	for _, node := range order {
		v, found := grads.Remove(node)
		if !found {
			klog.V(1).Infof("Backward(%s): no gradient reached %s, skipping", root, node)
			continue
		}
		if node.op == nil {
			grads.Insert(node, v)
			continue
		}
		operands := node.op.Operands()
		contributions := vjpFor(node.op.Type())(node, v)
		if len(contributions) != len(operands) {
			exceptions.Panicf("VJP(%s) returned %d gradients, but the node has %d operands",
				node, len(contributions), len(operands))
		}
		for ii, operand := range operands {
			contribution := contributions[ii]
			if !contribution.shape.Equal(operand.shape) {
				exceptions.Panicf("invalid gradient for operand #%d (%s) of %s: gradient has shape %s, "+
					"operand has shape %s", ii, operand, node, contribution.shape, operand.shape)
			}
			grads.Accumulate(operand, contribution)
		}
		grads.Insert(node, v)
	}
	return grads
}

// Backward is the method form of Backward.
func (n *Node) Backward() *Gradients { return Backward(n) }

// vjpFor returns the gradient rule for the op type. It panics for op types without one.
func vjpFor(opType OpType) VJP {
	switch opType {
	case OpTypeAdd:
		return addVJP
	case OpTypeSub:
		return subVJP
	case OpTypeMul:
		return mulVJP
	case OpTypeDiv:
		return divVJP
	case OpTypeMatMul:
		return matMulVJP
	case OpTypeMulScalar:
		return mulScalarVJP
	case OpTypePowf:
		return powfVJP
	case OpTypeTranspose:
		return transposeVJP
	case OpTypeSigmoid:
		return sigmoidVJP
	case OpTypeBroadcast:
		return broadcastVJP
	case OpTypeSum:
		return sumVJP
	default:
		exceptions.Panicf("no gradient defined for op type %s", opType)
		panic(nil) // Quiet linter.
	}
}

func binaryOperands(node *Node) (lhs, rhs *Node) {
	op := node.op.(*BinaryOp)
	return op.Lhs, op.Rhs
}

func addVJP(_, v *Node) []*Node {
	return []*Node{v, v}
}

func subVJP(_, v *Node) []*Node {
	return []*Node{v, MulScalar(v, -1)}
}

func mulVJP(node, v *Node) []*Node {
	lhs, rhs := binaryOperands(node)
	return []*Node{Must(Mul(v, rhs)), Must(Mul(v, lhs))}
}

// VJP formulation for Div:
// F(a,b) = a/b ->  v*dF/da = v/b ; v*dF/db = -v*a/b^2
func divVJP(node, v *Node) []*Node {
	lhs, rhs := binaryOperands(node)
	negLhsOverRhs2 := MulScalar(Must(Div(lhs, Must(Mul(rhs, rhs)))), -1)
	return []*Node{Must(Div(v, rhs)), Must(Mul(v, negLhsOverRhs2))}
}

func matMulVJP(node, v *Node) []*Node {
	lhs, rhs := binaryOperands(node)
	return []*Node{
		Must(MatMul(v, Transpose(rhs))),
		Must(MatMul(Transpose(lhs), v)),
	}
}

func mulScalarVJP(node, v *Node) []*Node {
	op := node.op.(*ScalarOp)
	return []*Node{MulScalar(v, op.Scalar)}
}

// VJP formulation for Powf:
// F(x) = x^p -> v*dF/dx = v*p*x^(p-1)
func powfVJP(node, v *Node) []*Node {
	op := node.op.(*ScalarOp)
	p := op.Scalar
	return []*Node{Must(Mul(MulScalar(v, p), Powf(op.Operand, p-1)))}
}

func transposeVJP(_, v *Node) []*Node {
	return []*Node{Transpose(v)}
}

// sigmoidVJP uses the node's own output: sigmoid'(x) = sigmoid(x) * (1 - sigmoid(x)).
func sigmoidVJP(node, v *Node) []*Node {
	oneMinus := Must(Sub(Ones(shapes.Make(1, 1), false), node))
	return []*Node{Must(Mul(v, Must(Mul(node, oneMinus))))}
}

// broadcastVJP reduce-sums v over the axes that were stretched, so each source value receives the
// sum of the gradients of all its copies.
func broadcastVJP(node, v *Node) []*Node {
	op := node.op.(*UnaryOp)
	from := op.Operand.shape
	reduced := v
	for _, axis := range shapes.BroadcastAxes(from, node.shape) {
		switch axis {
		case 0:
			// Rows were replicated: sum each column across the rows, into (1, cols).
			reduced = Sum(reduced, 1)
		case 1:
			// Columns were replicated: sum each row across the columns, into (rows, 1).
			reduced = Sum(reduced, 0)
		}
	}
	return []*Node{reduced}
}

// sumVJP broadcasts v back to the operand's shape: every summed value gets the gradient of the sum.
// Sum on other axes is the identity.
func sumVJP(node, v *Node) []*Node {
	op := node.op.(*UnaryOp)
	switch op.Axis {
	case 0, 1:
		return []*Node{Must(Broadcast(v, op.Operand.shape))}
	default:
		return []*Node{v}
	}
}
