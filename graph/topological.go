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

import "slices"

// TopologicalOrder returns every node reachable from root through provenance, each exactly
// once, ordered so that the root comes first and every node comes after all of its consumers
// (among the nodes reachable from root).
//
// This is the order in which Backward processes nodes. It returns nil for a nil root.
func TopologicalOrder(root *Node) []*Node {
	if root == nil {
		return nil
	}
	sorter := &topoSorter{visited: make(map[NodeId]struct{})}
	sorter.visit(root)
	slices.Reverse(sorter.order)
	return sorter.order
}

// topoSorter holds the state of the depth-first traversal: nodes are appended in post-order
// and the final order is its reverse.
type topoSorter struct {
	visited map[NodeId]struct{}
	order   []*Node
}

func (s *topoSorter) visit(node *Node) {
	if _, found := s.visited[node.id]; found {
		return
	}
	// Marked before descending, so a node reachable through several paths is listed once.
	s.visited[node.id] = struct{}{}
	if node.op != nil {
		for _, operand := range node.op.Operands() {
			s.visit(operand)
		}
	}
	s.order = append(s.order, node)
}
