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
	"github.com/gomlx/exceptions"
	. "github.com/matgrad/matgrad/graph"
)

// ActivationType enumerates the activation functions a Layer can apply.
type ActivationType int

const (
	ActivationNone ActivationType = iota
	ActivationSigmoid
)

//go:generate go tool enumer -type=ActivationType -trimprefix=Activation -output=gen_activationtype_enumer.go activation.go

// ApplyActivation applies the activation to x. ActivationNone is a no-op.
func ApplyActivation(activation ActivationType, x *Node) *Node {
	switch activation {
	case ActivationNone:
		return x
	case ActivationSigmoid:
		return Sigmoid(x)
	default:
		exceptions.Panicf("ApplyActivation got invalid activation value %q: options are %v", activation, ActivationTypeValues())
	}
	return nil
}
