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

package graph_test

import (
	"math/rand/v2"
	"testing"

	"github.com/janpfeifer/must"
	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/graph/graphtest"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromRows is a test shortcut for FromRows without gradients.
func fromRows(rows ...[]float32) *Node {
	return must.M1(FromRows(rows, false))
}

func TestMatMul(t *testing.T) {
	graphtest.RunTestNodeFn(t, "(1,2)@(2,1)", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2})
		b := fromRows([]float32{2}, []float32{3})
		return []*Node{a, b}, []*Node{Must(MatMul(a, b))}
	}, []any{[][]float32{{8}}}, -1)

	graphtest.RunTestNodeFn(t, "(2,2)@(2,1)", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2}, []float32{3, 4})
		b := fromRows([]float32{2}, []float32{3})
		return []*Node{a, b}, []*Node{Must(MatMul(a, b))}
	}, []any{[][]float32{{8}, {18}}}, -1)

	graphtest.RunTestNodeFn(t, "(1,2)@(2,2)", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2})
		b := fromRows([]float32{2, 3}, []float32{4, 5})
		return []*Node{a, b}, []*Node{Must(MatMul(a, b))}
	}, []any{[][]float32{{10, 13}}}, -1)

	graphtest.RunTestNodeFn(t, "(2,2)@(2,3)", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2}, []float32{0, 1})
		b := fromRows([]float32{2, 5, 1}, []float32{6, 7, 1})
		return []*Node{a, b}, []*Node{Must(MatMul(a, b))}
	}, []any{[][]float32{{14, 19, 3}, {6, 7, 1}}}, -1)

	graphtest.RunTestNodeFn(t, "chained", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2})
		b := fromRows([]float32{2}, []float32{3})
		return []*Node{a, b}, []*Node{Must(Must(a.MatMul(b)).MatMul(a))}
	}, []any{[][]float32{{8, 16}}}, -1)

	graphtest.RunTestNodeFn(t, "empty", func() (inputs, outputs []*Node) {
		a := Ones(shapes.Make(2, 0), false)
		b := Ones(shapes.Make(0, 3), false)
		c := Ones(shapes.Make(0, 2), false)
		d := Ones(shapes.Make(2, 2), false)
		return []*Node{a, b}, []*Node{Must(MatMul(a, b)), Must(MatMul(c, d))}
	}, []any{shapes.Make(2, 3), shapes.Make(0, 2)}, -1)

	// Incompatible inner dimensions.
	a := RandomUniform(0, 1, shapes.Make(2, 3), false)
	b := RandomUniform(0, 1, shapes.Make(2, 3), false)
	_, err := MatMul(a, b)
	var mismatch *shapes.ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "MatMul", mismatch.Op)
	assert.Equal(t, a.Shape(), mismatch.Lhs)
	assert.Equal(t, b.Shape(), mismatch.Rhs)
}

func TestElementwise(t *testing.T) {
	graphtest.RunTestNodeFn(t, "same shape", func() (inputs, outputs []*Node) {
		a := fromRows([]float32{1, 2}, []float32{-2, 1})
		b := fromRows([]float32{2, -5}, []float32{1, 6})
		return []*Node{a, b}, []*Node{
			Must(Add(a, b)),
			Must(Sub(a, b)),
			Must(Mul(a, b)),
			Must(Div(a, b)),
		}
	}, []any{
		[][]float32{{3, -3}, {-1, 7}},
		[][]float32{{-1, 7}, {-3, -5}},
		[][]float32{{2, -10}, {-2, 6}},
		[][]float32{{0.5, -0.4}, {-2, 1.0 / 6.0}},
	}, 1e-6)

	graphtest.RunTestNodeFn(t, "broadcast", func() (inputs, outputs []*Node) {
		x := fromRows([]float32{1, 2, 3}, []float32{4, 5, 6})
		row := fromRows([]float32{10, 20, 30})
		col := fromRows([]float32{100}, []float32{200})
		scalar := fromRows([]float32{2})
		return []*Node{x, row, col, scalar}, []*Node{
			Must(x.Add(row)),
			Must(col.Add(x)),
			Must(x.Mul(scalar)),
			Must(row.Add(col)),
			Must(scalar.Sub(x)),
		}
	}, []any{
		[][]float32{{11, 22, 33}, {14, 25, 36}},
		[][]float32{{101, 102, 103}, {204, 205, 206}},
		[][]float32{{2, 4, 6}, {8, 10, 12}},
		[][]float32{{110, 120, 130}, {210, 220, 230}},
		[][]float32{{1, 0, -1}, {-2, -3, -4}},
	}, -1)

	// Incompatible shapes.
	a := fromRows([]float32{1, 2}, []float32{-2, 1})
	b := RandomUniform(0, 1, shapes.Make(4, 4), false)
	for _, op := range []func(lhs, rhs *Node) (*Node, error){Add, Sub, Mul, Div} {
		_, err := op(a, b)
		var mismatch *shapes.ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, a.Shape(), mismatch.Lhs)
		assert.Equal(t, b.Shape(), mismatch.Rhs)
		var broadcastErr *shapes.BroadcastError
		require.ErrorAs(t, err, &broadcastErr)
	}
}

func TestElementwiseProvenance(t *testing.T) {
	x := Ones(shapes.Make(2, 3), true)
	row := Ones(shapes.Make(1, 3), false)
	y := Must(Add(x, row))
	op, ok := y.Op().(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, OpTypeAdd, op.Type())
	assert.Same(t, x, op.Lhs)

	// The rhs recorded is the broadcast of row, not row itself.
	require.NotSame(t, row, op.Rhs)
	assert.Equal(t, OpTypeBroadcast, op.Rhs.Op().Type())
	assert.Same(t, row, op.Rhs.Op().Operands()[0])
	assert.Equal(t, x.Shape(), op.Rhs.Shape())
	assert.True(t, y.NeedsGrad())
	assert.False(t, op.Rhs.NeedsGrad())
}

func TestBroadcast(t *testing.T) {
	graphtest.RunTestNodeFn(t, "Broadcast", func() (inputs, outputs []*Node) {
		row := fromRows([]float32{1, 2, 3})
		col := fromRows([]float32{1}, []float32{2})
		scalar := fromRows([]float32{7})
		same := fromRows([]float32{1, 2})
		return []*Node{row, col, scalar}, []*Node{
			Must(Broadcast(row, shapes.Make(2, 3))),
			Must(Broadcast(col, shapes.Make(2, 3))),
			Must(scalar.BroadcastTo(shapes.Make(2, 2))),
			Must(same.BroadcastTo(shapes.Make(1, 2))),
		}
	}, []any{
		[][]float32{{1, 2, 3}, {1, 2, 3}},
		[][]float32{{1, 1, 1}, {2, 2, 2}},
		[][]float32{{7, 7}, {7, 7}},
		[][]float32{{1, 2}},
	}, -1)

	x := Ones(shapes.Make(2, 3), false)
	_, err := Broadcast(x, shapes.Make(3, 3))
	var broadcastErr *shapes.BroadcastError
	require.ErrorAs(t, err, &broadcastErr)
	assert.Equal(t, shapes.Make(2, 3), broadcastErr.From)
	assert.Equal(t, shapes.Make(3, 3), broadcastErr.To)
}

func TestTranspose(t *testing.T) {
	a := fromRows([]float32{1, 2, -2}, []float32{1, 4, 6})
	at := a.T()
	graphtest.RequireData(t, at, [][]float32{{1, 1}, {2, 4}, {-2, 6}}, -1)
	assert.Equal(t, OpTypeTranspose, at.Op().Type())

	// Round trip.
	att := at.T()
	assert.Equal(t, a.Shape(), att.Shape())
	assert.Equal(t, a.Data(), att.Data())

	col := fromRows([]float32{1}, []float32{2}, []float32{3})
	graphtest.RequireData(t, Transpose(col), [][]float32{{1, 2, 3}}, -1)
}

func TestSum(t *testing.T) {
	x := fromRows([]float32{1, 2, 3}, []float32{4, 5, 6})
	graphtest.RequireData(t, Sum(x, 0), [][]float32{{6}, {15}}, -1)
	graphtest.RequireData(t, x.Sum(1), [][]float32{{5, 7, 9}}, -1)

	// Other axes don't reduce, but the provenance is still recorded.
	for _, axis := range []int{2, -1, 5} {
		s := Sum(x, axis)
		graphtest.RequireData(t, s, [][]float32{{1, 2, 3}, {4, 5, 6}}, -1)
		assert.NotEqual(t, x.Id(), s.Id())
		op, ok := s.Op().(*UnaryOp)
		require.True(t, ok)
		assert.Equal(t, OpTypeSum, op.Type())
		assert.Equal(t, axis, op.Axis)
	}

	// Reducing everything into a (1, 1).
	graphtest.RequireData(t, x.Sum(0).Sum(1), [][]float32{{21}}, -1)
}

func TestScalarOps(t *testing.T) {
	graphtest.RunTestNodeFn(t, "scalar ops", func() (inputs, outputs []*Node) {
		x := fromRows([]float32{-1, 0, 2})
		return []*Node{x}, []*Node{
			MulScalar(x, 3),
			x.MulScalar(-0.5),
			x.Powf(2),
			Powf(x, 3),
			Sigmoid(x),
		}
	}, []any{
		[][]float32{{-3, 0, 6}},
		[][]float32{{0.5, 0, -1}},
		[][]float32{{1, 0, 4}},
		[][]float32{{-1, 0, 8}},
		[][]float32{{0.26894142, 0.5, 0.8807971}},
	}, 1e-6)
}

func TestNoHistory(t *testing.T) {
	a := Ones(shapes.Make(1, 2), true)
	b := Fill(shapes.Make(1, 2), 3, false)
	c := Must(a.Mul(b))
	require.False(t, c.IsLeaf())

	d := c.NoHistory()
	assert.True(t, d.IsLeaf())
	assert.Nil(t, d.Op())
	assert.NotEqual(t, c.Id(), d.Id())
	assert.Equal(t, c.Shape(), d.Shape())
	assert.Equal(t, c.Data(), d.Data())
	assert.True(t, d.NeedsGrad())
	assert.False(t, NoHistory(b).NeedsGrad())
}

func TestCreation(t *testing.T) {
	shape := shapes.Make(2, 3)
	graphtest.RequireData(t, Zeros(shape, false), [][]float32{{0, 0, 0}, {0, 0, 0}}, -1)
	graphtest.RequireData(t, Ones(shape, false), [][]float32{{1, 1, 1}, {1, 1, 1}}, -1)
	graphtest.RequireData(t, Fill(shapes.Make(1, 2), -2.5, false), [][]float32{{-2.5, -2.5}}, -1)

	// FromValues copies the values.
	values := []float32{1, 2, 3, 4, 5, 6}
	x := must.M1(FromValues(values, shape, true))
	values[0] = 100
	assert.Equal(t, float32(1), x.Get(0, 0))
	assert.Equal(t, float32(6), x.Get(1, 2))
	assert.Equal(t, []float32{4, 5, 6}, x.Row(1))
	assert.True(t, x.NeedsGrad())
	assert.True(t, x.IsLeaf())

	// Data returns a copy.
	data := x.Data()
	data[1] = 100
	assert.Equal(t, float32(2), x.Get(0, 1))

	_, err := FromValues([]float32{1, 2, 3}, shape, false)
	var sizeErr *shapes.DataSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 3, sizeErr.Len)
	require.Panics(t, func() { _ = MustFromValues([]float32{1}, shape, false) })

	_, err = FromRows([][]float32{{1, 2}, {3}}, false)
	require.Error(t, err)
	empty := must.M1(FromRows(nil, false))
	assert.Equal(t, shapes.Make(0, 0), empty.Shape())

	// Out-of-range access.
	require.Panics(t, func() { _ = x.Get(2, 0) })
	require.Panics(t, func() { _ = x.Get(0, -1) })
	require.Panics(t, func() { _ = x.Row(3) })
}

func TestRandomUniform(t *testing.T) {
	shape := shapes.Make(10, 10)
	x := RandomUniform(-1, 1, shape, false)
	for _, v := range x.Data() {
		require.GreaterOrEqual(t, v, float32(-1))
		require.Less(t, v, float32(1))
	}

	// Reproducible with the same seed.
	x1 := RandomUniformWithRNG(rand.New(rand.NewPCG(42, 0)), 0, 1, shape, true)
	x2 := RandomUniformWithRNG(rand.New(rand.NewPCG(42, 0)), 0, 1, shape, true)
	assert.Equal(t, x1.Data(), x2.Data())
	assert.NotEqual(t, x1.Id(), x2.Id())
}

func TestNodeIds(t *testing.T) {
	a := Zeros(shapes.Make(1, 1), false)
	b := Zeros(shapes.Make(1, 1), false)
	c := Must(Add(a, b))
	assert.Greater(t, uint64(a.Id()), uint64(InvalidNodeId))
	assert.Less(t, uint64(a.Id()), uint64(b.Id()))
	assert.Less(t, uint64(b.Id()), uint64(c.Id()))
}

func TestNeedsGrad(t *testing.T) {
	param := Ones(shapes.Make(2, 2), true)
	input := Ones(shapes.Make(2, 2), false)
	assert.True(t, Must(Add(param, input)).NeedsGrad())
	assert.True(t, Must(MatMul(input, param)).NeedsGrad())
	assert.False(t, Must(Mul(input, input)).NeedsGrad())
	assert.False(t, Sigmoid(input).NeedsGrad())
	assert.True(t, Sum(param, 0).NeedsGrad())
}
