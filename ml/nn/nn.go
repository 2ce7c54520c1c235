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

// Package nn implements a fully connected feed-forward network on top of graph nodes.
//
// Examples are laid out one per column: a batch of inputs has shape (features, batch), and
// the predictions have shape (outputs, batch). Each layer computes act(W@x + B), with W
// shaped (outputs, inputs) and B shaped (outputs, 1), broadcast across the batch.
//
// Networks are configured with Build:
//
//	net, err := nn.Build(2, 4, 1).
//		LearningRate(4.5).
//		Activation(nn.ActivationSigmoid).
//		Seed(42).
//		Done()
package nn

import (
	"fmt"
	"math/rand/v2"

	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
)

const (
	// DefaultLearningRate used if Config.LearningRate is not set.
	DefaultLearningRate = 0.1

	// DefaultActivation used if Config.Activation is not set.
	DefaultActivation = ActivationSigmoid
)

// Layer is one fully connected layer.
type Layer struct {
	// W has shape (outputs, inputs).
	W *Node

	// B has shape (outputs, 1).
	B *Node

	Activation ActivationType
}

// NumInputs is the number of features the layer takes.
func (l *Layer) NumInputs() int { return l.W.Shape().Cols }

// NumOutputs is the number of values the layer produces per example.
func (l *Layer) NumOutputs() int { return l.W.Shape().Rows }

// String implements fmt.Stringer.
func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%d->%d, %s)", l.NumInputs(), l.NumOutputs(), l.Activation)
}

// Forward computes act(W@x + B), for x shaped (inputs, batch).
func (l *Layer) Forward(x *Node) (*Node, error) {
	wx, err := MatMul(l.W, x)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s.Forward(x=%s)", l, x.Shape())
	}
	z, err := Add(wx, l.B)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s.Forward(x=%s): adding bias", l, x.Shape())
	}
	return ApplyActivation(l.Activation, z), nil
}

// Network is a stack of fully connected layers, trained with plain gradient descent.
//
// Its parameters are replaced (not mutated) at each training step, see SetParameters.
type Network struct {
	Layers       []*Layer
	learningRate float32
}

// LearningRate used when training the network.
func (net *Network) LearningRate() float32 { return net.learningRate }

// Sizes returns the number of inputs, followed by the number of outputs of each layer.
func (net *Network) Sizes() []int {
	sizes := make([]int, 0, len(net.Layers)+1)
	sizes = append(sizes, net.NumInputs())
	for _, layer := range net.Layers {
		sizes = append(sizes, layer.NumOutputs())
	}
	return sizes
}

// NumInputs is the number of features per example.
func (net *Network) NumInputs() int { return net.Layers[0].NumInputs() }

// NumOutputs is the number of values predicted per example.
func (net *Network) NumOutputs() int { return net.Layers[len(net.Layers)-1].NumOutputs() }

// Forward runs x, shaped (inputs, batch), through all layers and returns the predictions
// shaped (outputs, batch).
func (net *Network) Forward(x *Node) (*Node, error) {
	if x.Shape().Rows != net.NumInputs() {
		return nil, errors.WithStack(&shapes.ShapeMismatchError{
			Op: "Network.Forward", Lhs: net.Layers[0].W.Shape(), Rhs: x.Shape()})
	}
	var err error
	for ii, layer := range net.Layers {
		x, err = layer.Forward(x)
		if err != nil {
			return nil, errors.WithMessagef(err, "layer #%d", ii)
		}
	}
	return x, nil
}

// Predict runs one example through the network and returns its outputs.
func (net *Network) Predict(example []float32) ([]float32, error) {
	x, err := FromValues(example, shapes.Make(len(example), 1), false)
	if err != nil {
		return nil, err
	}
	y, err := net.Forward(x)
	if err != nil {
		return nil, errors.WithMessagef(err, "Predict(%v)", example)
	}
	return y.Data(), nil
}

// Parameters returns the weights and biases of all layers: W0, B0, W1, B1, ...
func (net *Network) Parameters() []*Node {
	params := make([]*Node, 0, 2*len(net.Layers))
	for _, layer := range net.Layers {
		params = append(params, layer.W, layer.B)
	}
	return params
}

// SetParameters replaces the weights and biases of all layers, in the order returned by
// Parameters. The shapes must match the current ones.
func (net *Network) SetParameters(params []*Node) error {
	if len(params) != 2*len(net.Layers) {
		return errors.Errorf("SetParameters: got %d parameters, network has %d", len(params), 2*len(net.Layers))
	}
	for ii, param := range params {
		current := net.Layers[ii/2].W
		if ii%2 == 1 {
			current = net.Layers[ii/2].B
		}
		if !param.Shape().Equal(current.Shape()) {
			return errors.WithStack(&shapes.ShapeMismatchError{
				Op: "SetParameters", Lhs: current.Shape(), Rhs: param.Shape()})
		}
	}
	for ii, layer := range net.Layers {
		layer.W, layer.B = params[2*ii], params[2*ii+1]
	}
	return nil
}

// Config for a Network, created with Build and configured with its methods.
// Call Done to create the Network.
type Config struct {
	sizes             []int
	learningRate      float32
	activation        ActivationType
	initLow, initHigh float32
	rng               *rand.Rand

	err error
}

// Build starts the configuration of a Network with the given sizes: the number of input
// features, followed by the number of units of each layer. The last size is the number of
// outputs. At least 2 sizes are required.
func Build(sizes ...int) *Config {
	c := &Config{
		sizes:        sizes,
		learningRate: DefaultLearningRate,
		activation:   DefaultActivation,
		initLow:      0,
		initHigh:     1,
	}
	if len(sizes) < 2 {
		c.err = errors.Errorf("nn.Build(%v): requires at least 2 sizes (inputs and outputs)", sizes)
		return c
	}
	for ii, size := range sizes {
		if size <= 0 {
			c.err = errors.Errorf("nn.Build(%v): size #%d must be > 0", sizes, ii)
			break
		}
	}
	return c
}

// LearningRate sets the step size of gradient descent. It must be > 0. Default is DefaultLearningRate.
func (c *Config) LearningRate(learningRate float32) *Config {
	if learningRate <= 0 && c.err == nil {
		c.err = errors.Errorf("nn.Config.LearningRate(%g): must be > 0", learningRate)
	}
	c.learningRate = learningRate
	return c
}

// Activation sets the activation function of all layers. Default is DefaultActivation.
func (c *Config) Activation(activation ActivationType) *Config {
	if !activation.IsAActivationType() && c.err == nil {
		c.err = errors.Errorf("nn.Config.Activation(%s): invalid activation, options are %v",
			activation, ActivationTypeValues())
	}
	c.activation = activation
	return c
}

// Init sets the range [low, high) of the uniform distribution weights and biases are sampled
// from. Default is [0, 1).
func (c *Config) Init(low, high float32) *Config {
	if low >= high && c.err == nil {
		c.err = errors.Errorf("nn.Config.Init(%g, %g): low must be < high", low, high)
	}
	c.initLow, c.initHigh = low, high
	return c
}

// Seed makes the initialization reproducible. By default, the process random number
// generator is used.
func (c *Config) Seed(seed uint64) *Config {
	c.rng = rand.New(rand.NewPCG(seed, seed))
	return c
}

// Done creates the Network, or returns the first configuration error.
func (c *Config) Done() (*Network, error) {
	if c.err != nil {
		return nil, c.err
	}
	net := &Network{
		Layers:       make([]*Layer, 0, len(c.sizes)-1),
		learningRate: c.learningRate,
	}
	for ii := 1; ii < len(c.sizes); ii++ {
		inputs, outputs := c.sizes[ii-1], c.sizes[ii]
		net.Layers = append(net.Layers, &Layer{
			W:          RandomUniformWithRNG(c.rng, c.initLow, c.initHigh, shapes.Make(outputs, inputs), true),
			B:          RandomUniformWithRNG(c.rng, c.initLow, c.initHigh, shapes.Make(outputs, 1), true),
			Activation: c.activation,
		})
	}
	return net, nil
}
