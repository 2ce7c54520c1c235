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

package train

import (
	. "github.com/matgrad/matgrad/graph"
	"github.com/matgrad/matgrad/ml/nn"
	"github.com/matgrad/matgrad/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// LossFn computes the loss of the predictions against the labels, as a (1, 1) node.
type LossFn func(predictions, labels *Node) (*Node, error)

// Trainer executes training steps of plain gradient descent on a network.
type Trainer struct {
	net    *nn.Network
	lossFn LossFn
}

// NewTrainer creates a Trainer for net. If lossFn is nil, nn.MeanSquaredError is used.
func NewTrainer(net *nn.Network, lossFn LossFn) *Trainer {
	if lossFn == nil {
		lossFn = nn.MeanSquaredError
	}
	return &Trainer{net: net, lossFn: lossFn}
}

// Network being trained.
func (t *Trainer) Network() *nn.Network { return t.net }

// Loss evaluates the loss of the network on the batch, without training.
func (t *Trainer) Loss(inputs, labels *Node) (float32, error) {
	loss, _, err := t.EvalStep(inputs, labels)
	return loss, err
}

// EvalStep runs the network forward on the batch, without training, and returns the loss
// along with the predictions, shaped (outputs, batch).
func (t *Trainer) EvalStep(inputs, labels *Node) (loss float32, predictions *Node, err error) {
	lossValue, predictions, err := t.lossNode(inputs, labels)
	if err != nil {
		return 0, nil, err
	}
	return lossValue.Get(0, 0), predictions, nil
}

func (t *Trainer) lossNode(inputs, labels *Node) (loss, predictions *Node, err error) {
	if inputs.Shape().Cols != labels.Shape().Cols {
		return nil, nil, errors.Wrapf(ErrExampleCountMismatch, "inputs %s and labels %s", inputs.Shape(), labels.Shape())
	}
	if err = shapes.CheckDims(labels, t.net.NumOutputs(), shapes.UncheckedAxis); err != nil {
		return nil, nil, errors.WithMessagef(err, "labels don't match the %d outputs of the network", t.net.NumOutputs())
	}
	predictions, err = t.net.Forward(inputs)
	if err != nil {
		return nil, nil, err
	}
	loss, err = t.lossFn(predictions, labels)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "computing loss")
	}
	if !loss.Shape().IsScalar() {
		return nil, nil, errors.Errorf("loss must have shape (1, 1), got %s", loss.Shape())
	}
	return loss, predictions, nil
}

// TrainStep runs forward and backward on the batch, and updates every parameter p of the
// network to (p - learningRate * ∂loss/∂p), detached from the graph. It returns the loss
// before the update.
func (t *Trainer) TrainStep(inputs, labels *Node) (float32, error) {
	loss, _, err := t.lossNode(inputs, labels)
	if err != nil {
		return 0, errors.WithMessage(err, "TrainStep")
	}
	grads := Backward(loss)
	learningRate := t.net.LearningRate()
	params := t.net.Parameters()
	updated := make([]*Node, len(params))
	for ii, param := range params {
		grad := grads.For(param)
		if grad == nil {
			klog.V(1).Infof("TrainStep: no gradient for parameter %s", param)
			updated[ii] = param
			continue
		}
		step := grad.MulScalar(learningRate)
		updated[ii] = Must(param.Sub(step)).NoHistory()
	}
	if err = t.net.SetParameters(updated); err != nil {
		return 0, errors.WithMessage(err, "TrainStep: updating parameters")
	}
	return loss.Get(0, 0), nil
}
