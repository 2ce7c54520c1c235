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
)

// Gradients maps nodes (by NodeId) to gradient matrices.
//
// It is returned by Backward, holding the gradient of the root with respect to each node
// upstream of it. Stored gradients are leaves (no provenance) with the shape of their node.
//
// It is not safe for concurrent use.
type Gradients struct {
	grads map[NodeId]*Node
}

// NewGradients returns an empty Gradients.
func NewGradients() *Gradients {
	return &Gradients{grads: make(map[NodeId]*Node)}
}

// Len returns the number of gradients stored.
func (g *Gradients) Len() int { return len(g.grads) }

// Get returns the gradient stored for the node id, if any.
func (g *Gradients) Get(id NodeId) (grad *Node, found bool) {
	grad, found = g.grads[id]
	return
}

// For returns the gradient stored for node, or nil if there is none.
func (g *Gradients) For(node *Node) *Node {
	return g.grads[node.id]
}

// Insert stores grad as the gradient of node, and returns the previous one (or nil).
func (g *Gradients) Insert(node, grad *Node) (previous *Node) {
	previous = g.grads[node.id]
	g.grads[node.id] = grad
	return
}

// Remove takes out the gradient of node and returns it, if there was one.
func (g *Gradients) Remove(node *Node) (grad *Node, found bool) {
	grad, found = g.grads[node.id]
	if found {
		delete(g.grads, node.id)
	}
	return
}

// OrInsertZero returns the gradient of node, first storing a zero matrix with the node's shape
// if there was none.
func (g *Gradients) OrInsertZero(node *Node) *Node {
	grad, found := g.grads[node.id]
	if !found {
		grad = Zeros(node.shape, false)
		g.grads[node.id] = grad
	}
	return grad
}

// Accumulate adds contribution to the gradient of node. The contribution must have the node's
// shape; the stored sum is a new leaf.
func (g *Gradients) Accumulate(node, contribution *Node) {
	if !contribution.shape.Equal(node.shape) {
		exceptions.Panicf("gradient contribution %s doesn't match the shape of %s", contribution, node)
	}
	current := g.OrInsertZero(node)
	g.Insert(node, newNode(node.shape, addKernel(current.data, contribution.data), false, nil))
}
