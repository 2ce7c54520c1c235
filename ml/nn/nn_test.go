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

package nn

import (
	"testing"

	"github.com/janpfeifer/must"
	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/graph/graphtest"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	net, err := Build(4, 2, 3).LearningRate(0.2).Seed(7).Done()
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 3}, net.Sizes())
	assert.Equal(t, float32(0.2), net.LearningRate())
	require.Len(t, net.Layers, 2)
	assert.Equal(t, shapes.Make(2, 4), net.Layers[0].W.Shape())
	assert.Equal(t, shapes.Make(2, 1), net.Layers[0].B.Shape())
	assert.Equal(t, shapes.Make(3, 2), net.Layers[1].W.Shape())
	assert.Equal(t, shapes.Make(3, 1), net.Layers[1].B.Shape())
	assert.Equal(t, ActivationSigmoid, net.Layers[0].Activation)
	assert.Len(t, net.Parameters(), 4)
	for _, param := range net.Parameters() {
		assert.True(t, param.NeedsGrad())
		assert.True(t, param.IsLeaf())
		for _, v := range param.Data() {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.Less(t, v, float32(1))
		}
	}

	// Same seed, same parameters.
	other := must.M1(Build(4, 2, 3).Seed(7).Done())
	for ii, param := range net.Parameters() {
		assert.Equal(t, param.Data(), other.Parameters()[ii].Data())
	}

	// Configuration errors.
	for name, config := range map[string]*Config{
		"one size":       Build(3),
		"zero size":      Build(3, 0, 1),
		"learning rate":  Build(2, 1).LearningRate(0),
		"init range":     Build(2, 1).Init(1, -1),
		"activation":     Build(2, 1).Activation(ActivationType(100)),
		"first error":    Build(2, -1).LearningRate(-1),
		"negative input": Build(-2, 1),
	} {
		_, err := config.Done()
		assert.Errorf(t, err, "%s should have failed", name)
	}
}

func TestForward(t *testing.T) {
	net := must.M1(Build(2, 1).Activation(ActivationNone).Done())
	w := must.M1(FromRows([][]float32{{1, 2}}, true))
	b := must.M1(FromRows([][]float32{{0.5}}, true))
	require.NoError(t, net.SetParameters([]*Node{w, b}))

	// 3 examples, one per column.
	x := must.M1(FromRows([][]float32{{1, 0, 2}, {1, 1, -1}}, false))
	y := must.M1(net.Forward(x))
	graphtest.RequireData(t, y, [][]float32{{3.5, 2.5, 0.5}}, -1)

	out := must.M1(net.Predict([]float32{2, 3}))
	assert.Equal(t, []float32{8.5}, out)

	_, err := net.Predict([]float32{1, 2, 3})
	require.Error(t, err)
	var mismatch *shapes.ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)

	// Parameters must keep their shapes.
	require.Error(t, net.SetParameters([]*Node{b, w}))
	require.Error(t, net.SetParameters([]*Node{w}))
}

func TestSigmoidNetwork(t *testing.T) {
	net := must.M1(Build(3, 2, 1).Init(0, 1e-9).Done())
	zero := Zeros(shapes.Make(3, 1), false)
	require.NoError(t, net.SetParameters([]*Node{
		Zeros(shapes.Make(2, 3), true), Zeros(shapes.Make(2, 1), true),
		Zeros(shapes.Make(1, 2), true), Zeros(shapes.Make(1, 1), true),
	}))
	y := must.M1(net.Forward(zero))
	graphtest.RequireData(t, y, [][]float32{{0.5}}, 1e-6)
}

func TestMeanSquaredError(t *testing.T) {
	predictions := must.M1(FromRows([][]float32{{1, 2}, {3, 4}}, true))
	labels := Ones(shapes.Make(2, 2), false)
	loss := must.M1(MeanSquaredError(predictions, labels))
	graphtest.RequireData(t, loss, [][]float32{{3.5}}, 1e-6)

	// d(loss)/d(pred) = 2*(pred-labels)/n
	grads := Backward(loss)
	graphtest.RequireGrad(t, grads, predictions, [][]float32{{0, 0.5}, {1, 1.5}}, 1e-6)

	_, err := MeanSquaredError(predictions, Ones(shapes.Make(1, 2), false))
	var mismatch *shapes.ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)

	_, err = MeanSquaredError(Zeros(shapes.Make(0, 2), false), Zeros(shapes.Make(0, 2), false))
	require.Error(t, err)
}

func TestLayerGradients(t *testing.T) {
	layer := &Layer{
		W:          must.M1(FromRows([][]float32{{2}}, true)),
		B:          Zeros(shapes.Make(1, 1), true),
		Activation: ActivationNone,
	}
	x := Ones(shapes.Make(1, 1), false)
	y := Zeros(shapes.Make(1, 1), false)
	loss := must.M1(MeanSquaredError(must.M1(layer.Forward(x)), y))
	graphtest.RequireData(t, loss, [][]float32{{4}}, -1)
	grads := Backward(loss)
	graphtest.RequireGrad(t, grads, layer.W, [][]float32{{4}}, -1)
	graphtest.RequireGrad(t, grads, layer.B, [][]float32{{4}}, -1)
}

func TestApplyActivation(t *testing.T) {
	x := Zeros(shapes.Make(1, 1), false)
	assert.Same(t, x, ApplyActivation(ActivationNone, x))
	graphtest.RequireData(t, ApplyActivation(ActivationSigmoid, x), [][]float32{{0.5}}, -1)
	require.Panics(t, func() { ApplyActivation(ActivationType(-1), x) })

	activation, err := ActivationTypeString("sigmoid")
	require.NoError(t, err)
	assert.Equal(t, ActivationSigmoid, activation)
	assert.Equal(t, "None", ActivationNone.String())
}
