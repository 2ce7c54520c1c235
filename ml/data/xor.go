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

package data

// XOR returns the 4 examples of the exclusive-or function: inputs with 2 values in {0, 1},
// and labels with 1 value, 1 if exactly one input is 1.
func XOR() (inputs, labels [][]float32) {
	inputs = [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	labels = [][]float32{{0}, {1}, {1}, {0}}
	return
}
