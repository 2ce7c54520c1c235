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
	"testing"

	"github.com/janpfeifer/must"
	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/graph/graphtest"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// param is a test shortcut for a (1, n) or (n, m) leaf that needs gradients.
func param(rows ...[]float32) *Node {
	return must.M1(FromRows(rows, true))
}

func TestGradientBasicOperators(t *testing.T) {
	a := param([]float32{2, 3})
	b := param([]float32{4, 2})

	grads := Backward(Must(a.Add(b)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{1, 1}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{1, 1}}, -1)

	grads = Backward(Must(a.Sub(b)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{1, 1}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{-1, -1}}, -1)

	grads = Backward(Must(a.Mul(b)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{4, 2}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{2, 3}}, -1)

	grads = Must(a.Div(b)).Backward()
	graphtest.RequireGrad(t, grads, a, [][]float32{{0.25, 0.5}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{-0.125, -0.75}}, -1)
}

func TestGradientRootAndLeaves(t *testing.T) {
	a := param([]float32{2, 3})
	b := param([]float32{4, 2})
	c := Must(a.Mul(b))
	grads := Backward(c)

	// The root gets the seed, and every visited node keeps its gradient.
	graphtest.RequireGrad(t, grads, c, [][]float32{{1, 1}}, -1)
	assert.Equal(t, 3, grads.Len())
	for _, node := range []*Node{a, b, c} {
		grad, found := grads.Get(node.Id())
		require.True(t, found)
		assert.True(t, grad.IsLeaf())
		assert.False(t, grad.NeedsGrad())
	}

	// Backward of a leaf.
	grads = Backward(a)
	assert.Equal(t, 1, grads.Len())
	graphtest.RequireGrad(t, grads, a, [][]float32{{1, 1}}, -1)

	// Backward of nil.
	assert.Equal(t, 0, Backward(nil).Len())
}

func TestGradientMatMul(t *testing.T) {
	a := param([]float32{1, 2})
	b := param([]float32{2}, []float32{3})
	grads := Backward(Must(MatMul(a, b)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{2, 3}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{1}, {2}}, -1)

	// (a@b)@a: a is used twice, and receives the sum of both paths.
	grads = Backward(Must(Must(MatMul(a, b)).MatMul(a)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{14, 17}}, -1)
	graphtest.RequireGrad(t, grads, b, [][]float32{{3}, {6}}, -1)

	// (2,2)@(2,3): gradients are G@rhsᵗ and lhsᵗ@G.
	w := param([]float32{1, 2}, []float32{0, 1})
	x := param([]float32{2, 5, 1}, []float32{6, 7, 1})
	grads = Backward(Must(MatMul(w, x)))
	graphtest.RequireGrad(t, grads, w, [][]float32{{8, 14}, {8, 14}}, -1)
	graphtest.RequireGrad(t, grads, x, [][]float32{{1, 1, 1}, {3, 3, 3}}, -1)
}

func TestGradientDiamond(t *testing.T) {
	// y = a*a + a -> dy/da = 2a + 1
	a := param([]float32{2, 3})
	y := Must(Add(Must(Mul(a, a)), a))
	grads := Backward(y)
	graphtest.RequireGrad(t, grads, a, [][]float32{{5, 7}}, -1)

	// y = (2a) * (3a) -> dy/da = 12a
	y = Must(Mul(MulScalar(a, 2), MulScalar(a, 3)))
	grads = Backward(y)
	graphtest.RequireGrad(t, grads, a, [][]float32{{24, 36}}, -1)
}

func TestGradientUnaryOps(t *testing.T) {
	x := param([]float32{2, 3})

	grads := Backward(MulScalar(x, 3))
	graphtest.RequireGrad(t, grads, x, [][]float32{{3, 3}}, -1)

	grads = Backward(Powf(x, 2))
	graphtest.RequireGrad(t, grads, x, [][]float32{{4, 6}}, -1)

	grads = Backward(x.Powf(3))
	graphtest.RequireGrad(t, grads, x, [][]float32{{12, 27}}, 1e-5)

	zero := param([]float32{0, 0})
	grads = Backward(Sigmoid(zero))
	graphtest.RequireGrad(t, grads, zero, [][]float32{{0.25, 0.25}}, 1e-6)

	// Transpose: y = aᵗ * w, so dy/da = wᵗ.
	a := param([]float32{1, 2, 3}, []float32{4, 5, 6})
	w := param([]float32{1, 2}, []float32{3, 4}, []float32{5, 6})
	grads = Backward(Must(Mul(a.T(), w)))
	graphtest.RequireGrad(t, grads, a, [][]float32{{1, 3, 5}, {2, 4, 6}}, -1)
	graphtest.RequireGrad(t, grads, w, [][]float32{{1, 4}, {2, 5}, {3, 6}}, -1)
}

func TestGradientBroadcast(t *testing.T) {
	x := param([]float32{1, 2, 3}, []float32{4, 5, 6})

	// Column bias, as in a dense layer: each value is used across its row.
	col := param([]float32{1}, []float32{2})
	grads := Backward(Must(Add(x, col)))
	graphtest.RequireGrad(t, grads, col, [][]float32{{3}, {3}}, -1)
	graphtest.RequireGrad(t, grads, x, [][]float32{{1, 1, 1}, {1, 1, 1}}, -1)

	row := param([]float32{1, 2, 3})
	grads = Backward(Must(Add(row, x)))
	graphtest.RequireGrad(t, grads, row, [][]float32{{2, 2, 2}}, -1)

	scalar := param([]float32{2})
	grads = Backward(Must(Mul(x, scalar)))
	graphtest.RequireGrad(t, grads, scalar, [][]float32{{21}}, -1)
	graphtest.RequireGrad(t, grads, x, [][]float32{{2, 2, 2}, {2, 2, 2}}, -1)

	// Both operands broadcast.
	grads = Backward(Must(Mul(row, col)))
	graphtest.RequireGrad(t, grads, row, [][]float32{{3, 3, 3}}, -1)
	graphtest.RequireGrad(t, grads, col, [][]float32{{6}, {6}}, -1)

	// Explicit Broadcast node.
	grads = Backward(Must(Broadcast(scalar, shapes.Make(3, 4))))
	graphtest.RequireGrad(t, grads, scalar, [][]float32{{12}}, -1)
}

func TestGradientSum(t *testing.T) {
	x := param([]float32{1, 2, 3}, []float32{4, 5, 6})

	grads := Backward(Sum(x, 0))
	graphtest.RequireGrad(t, grads, x, [][]float32{{1, 1, 1}, {1, 1, 1}}, -1)

	// Row sums are [6, 15], and the gradient of their squares is [12, 30].
	grads = Backward(Powf(Sum(x, 0), 2))
	graphtest.RequireGrad(t, grads, x, [][]float32{{12, 12, 12}, {30, 30, 30}}, -1)

	// Column sums are [5, 7, 9].
	grads = Backward(Powf(Sum(x, 1), 2))
	graphtest.RequireGrad(t, grads, x, [][]float32{{10, 14, 18}, {10, 14, 18}}, -1)

	// Other axes pass the gradient through unchanged.
	grads = Backward(MulScalar(Sum(x, 7), 3))
	graphtest.RequireGrad(t, grads, x, [][]float32{{3, 3, 3}, {3, 3, 3}}, -1)

	// Full reduction, like a loss.
	grads = Backward(x.Sum(0).Sum(1).MulScalar(0.5))
	graphtest.RequireGrad(t, grads, x, [][]float32{{0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}}, -1)
}

func TestGradientNoHistory(t *testing.T) {
	a := param([]float32{2, 3})
	b := param([]float32{4, 2})
	detached := Must(a.Mul(b)).NoHistory()
	c := param([]float32{1, 1})
	grads := Backward(Must(detached.Mul(c)))

	graphtest.RequireGrad(t, grads, detached, [][]float32{{1, 1}}, -1)
	graphtest.RequireGrad(t, grads, c, [][]float32{{8, 6}}, -1)
	assert.Nil(t, grads.For(a))
	assert.Nil(t, grads.For(b))
	assert.Equal(t, 3, grads.Len())
}

func TestGradientSGDStep(t *testing.T) {
	// One step of gradient descent on (w*x - y)^2, detaching the updated parameter.
	w := param([]float32{0.5})
	x := fromRows([]float32{2})
	y := fromRows([]float32{3})
	loss := Must(Sub(Must(Mul(w, x)), y)).Powf(2)
	graphtest.RequireData(t, loss, [][]float32{{4}}, -1)

	// dloss/dw = 2 * (w*x - y) * x = 2 * (-2) * 2 = -8
	grads := Backward(loss)
	graphtest.RequireGrad(t, grads, w, [][]float32{{-8}}, -1)
	w = Must(w.Sub(grads.For(w).MulScalar(0.1))).NoHistory()
	graphtest.RequireData(t, w, [][]float32{{1.3}}, 1e-6)
	assert.True(t, w.IsLeaf())
	assert.True(t, w.NeedsGrad())
}
