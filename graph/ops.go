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
	"math"

	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

// Add returns lhs + rhs, element-wise, broadcasting the operands if needed (see shapes.Resolve).
//
// It returns a *shapes.ShapeMismatchError if the shapes are not compatible.
func Add(lhs, rhs *Node) (*Node, error) {
	return binaryElementwise(OpTypeAdd, lhs, rhs, func(a, b float32) float32 { return a + b })
}

// Sub returns lhs - rhs, element-wise, broadcasting the operands if needed.
func Sub(lhs, rhs *Node) (*Node, error) {
	return binaryElementwise(OpTypeSub, lhs, rhs, func(a, b float32) float32 { return a - b })
}

// Mul returns lhs * rhs, element-wise (Hadamard product), broadcasting the operands if needed.
func Mul(lhs, rhs *Node) (*Node, error) {
	return binaryElementwise(OpTypeMul, lhs, rhs, func(a, b float32) float32 { return a * b })
}

// Div returns lhs / rhs, element-wise, broadcasting the operands if needed.
//
// Division by zero follows IEEE-754: it yields ±Inf or NaN, not an error.
func Div(lhs, rhs *Node) (*Node, error) {
	return binaryElementwise(OpTypeDiv, lhs, rhs, func(a, b float32) float32 { return a / b })
}

// binaryElementwise resolves the output shape, broadcasts the operands that don't match it and
// applies fn to each pair of values. The provenance records the broadcast operands.
func binaryElementwise(opType OpType, lhs, rhs *Node, fn func(a, b float32) float32) (*Node, error) {
	shape, err := shapes.Resolve(lhs.shape, rhs.shape)
	if err != nil {
		return nil, errors.WithStack(&shapes.ShapeMismatchError{
			Op: opType.String(), Lhs: lhs.shape, Rhs: rhs.shape, Cause: err})
	}
	lhs, err = broadcastIfNeeded(lhs, shape)
	if err != nil {
		return nil, errors.WithMessagef(err, "broadcasting lhs of %s", opType)
	}
	rhs, err = broadcastIfNeeded(rhs, shape)
	if err != nil {
		return nil, errors.WithMessagef(err, "broadcasting rhs of %s", opType)
	}
	data := make([]float32, shape.Size())
	lhsData, rhsData := lhs.data, rhs.data
	for ii := range data {
		data[ii] = fn(lhsData[ii], rhsData[ii])
	}
	return newNode(shape, data, lhs.needsGrad || rhs.needsGrad, &BinaryOp{Kind: opType, Lhs: lhs, Rhs: rhs}), nil
}

func broadcastIfNeeded(x *Node, shape shapes.Shape) (*Node, error) {
	if x.shape.Equal(shape) {
		return x, nil
	}
	return Broadcast(x, shape)
}

// MatMul returns the matrix product lhs @ rhs, with shape (lhs.Rows, rhs.Cols).
//
// It requires lhs.Cols == rhs.Rows, otherwise it returns a *shapes.ShapeMismatchError.
// There is no broadcasting.
func MatMul(lhs, rhs *Node) (*Node, error) {
	if lhs.shape.Cols != rhs.shape.Rows {
		return nil, errors.WithStack(&shapes.ShapeMismatchError{
			Op: OpTypeMatMul.String(), Lhs: lhs.shape, Rhs: rhs.shape})
	}
	shape := shapes.Make(lhs.shape.Rows, rhs.shape.Cols)
	data := matMulKernel(lhs.data, lhs.shape, rhs.data, rhs.shape)
	return newNode(shape, data, lhs.needsGrad || rhs.needsGrad,
		&BinaryOp{Kind: OpTypeMatMul, Lhs: lhs, Rhs: rhs}), nil
}

// MulScalar returns x * k, element-wise.
func MulScalar(x *Node, k float32) *Node {
	return scalarElementwise(OpTypeMulScalar, x, k, func(v float32) float32 { return v * k })
}

// Powf returns x raised to the power p, element-wise.
//
// Negative bases with non-integer powers yield NaN.
func Powf(x *Node, p float32) *Node {
	p64 := float64(p)
	return scalarElementwise(OpTypePowf, x, p, func(v float32) float32 {
		return float32(math.Pow(float64(v), p64))
	})
}

func scalarElementwise(opType OpType, x *Node, scalar float32, fn func(v float32) float32) *Node {
	data := make([]float32, len(x.data))
	for ii, v := range x.data {
		data[ii] = fn(v)
	}
	return newNode(x.shape, data, x.needsGrad, &ScalarOp{Kind: opType, Operand: x, Scalar: scalar})
}

// Sigmoid returns 1/(1+exp(-x)), element-wise.
func Sigmoid(x *Node) *Node {
	data := make([]float32, len(x.data))
	for ii, v := range x.data {
		data[ii] = float32(1.0 / (1.0 + math.Exp(-float64(v))))
	}
	return newNode(x.shape, data, x.needsGrad, &UnaryOp{Kind: OpTypeSigmoid, Operand: x})
}

// Transpose returns x with rows and columns swapped. The result is laid out in row-major order.
func Transpose(x *Node) *Node {
	return newNode(x.shape.Transposed(), transposeKernel(x.data, x.shape), x.needsGrad,
		&UnaryOp{Kind: OpTypeTranspose, Operand: x})
}

// Broadcast stretches x into the target shape: a row (1, n) is replicated into (m, n), a
// column (m, 1) is replicated into (m, n), and a (1, 1) fills the target.
//
// It returns a *shapes.BroadcastError if x can't be stretched into target.
// Broadcasting to the same shape returns a new node with a copy of the values.
func Broadcast(x *Node, target shapes.Shape) (*Node, error) {
	if !target.Ok() || !shapes.CanBroadcastTo(x.shape, target) {
		return nil, errors.WithStack(&shapes.BroadcastError{
			Op: OpTypeBroadcast.String(), From: x.shape, To: target})
	}
	data := make([]float32, target.Size())
	for row := range target.Rows {
		srcRow := row
		if x.shape.Rows == 1 {
			srcRow = 0
		}
		for col := range target.Cols {
			srcCol := col
			if x.shape.Cols == 1 {
				srcCol = 0
			}
			data[row*target.Cols+col] = x.data[srcRow*x.shape.Cols+srcCol]
		}
	}
	return newNode(target, data, x.needsGrad,
		&UnaryOp{Kind: OpTypeBroadcast, Operand: x, Target: target}), nil
}

// Sum reduces x along an axis:
//
//   - axis 0: sums across the columns of each row, the result has shape (rows, 1).
//   - axis 1: sums across the rows of each column, the result has shape (1, cols).
//   - any other axis: no reduction, the result has the values and shape of x.
//
// The provenance is recorded in all cases, so gradients flow through the no-op case too.
func Sum(x *Node, axis int) *Node {
	rows, cols := x.shape.Rows, x.shape.Cols
	var shape shapes.Shape
	var data []float32
	switch axis {
	case 0:
		shape = shapes.Make(rows, 1)
		data = make([]float32, rows)
		for row := range rows {
			var total float32
			for _, v := range x.data[row*cols : (row+1)*cols] {
				total += v
			}
			data[row] = total
		}
	case 1:
		shape = shapes.Make(1, cols)
		data = make([]float32, cols)
		for row := range rows {
			for col, v := range x.data[row*cols : (row+1)*cols] {
				data[col] += v
			}
		}
	default:
		shape = x.shape
		data = x.data
	}
	return newNode(shape, data, x.needsGrad, &UnaryOp{Kind: OpTypeSum, Operand: x, Axis: axis})
}

// NoHistory returns a new leaf with the values, shape and needsGrad of x, but no provenance.
//
// It is used to cut the graph after updating parameters, so their history is not retained.
func NoHistory(x *Node) *Node {
	return newNode(x.shape, x.data, x.needsGrad, nil)
}

// Add is the method form of Add.
func (n *Node) Add(rhs *Node) (*Node, error) { return Add(n, rhs) }

// Sub is the method form of Sub.
func (n *Node) Sub(rhs *Node) (*Node, error) { return Sub(n, rhs) }

// Mul is the method form of Mul.
func (n *Node) Mul(rhs *Node) (*Node, error) { return Mul(n, rhs) }

// Div is the method form of Div.
func (n *Node) Div(rhs *Node) (*Node, error) { return Div(n, rhs) }

// MatMul is the method form of MatMul.
func (n *Node) MatMul(rhs *Node) (*Node, error) { return MatMul(n, rhs) }

// MulScalar is the method form of MulScalar.
func (n *Node) MulScalar(k float32) *Node { return MulScalar(n, k) }

// Powf is the method form of Powf.
func (n *Node) Powf(p float32) *Node { return Powf(n, p) }

// Sigmoid is the method form of Sigmoid.
func (n *Node) Sigmoid() *Node { return Sigmoid(n) }

// T returns the transpose of the node.
func (n *Node) T() *Node { return Transpose(n) }

// BroadcastTo is the method form of Broadcast.
func (n *Node) BroadcastTo(target shapes.Shape) (*Node, error) { return Broadcast(n, target) }

// Sum is the method form of Sum.
func (n *Node) Sum(axis int) *Node { return Sum(n, axis) }

// NoHistory is the method form of NoHistory.
func (n *Node) NoHistory() *Node { return NoHistory(n) }
