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
	"github.com/matgrad/matgrad/types/shapes"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// matMulKernel returns the row-major product of a (m, k) and b (k, n).
func matMulKernel(a []float32, aShape shapes.Shape, b []float32, bShape shapes.Shape) []float32 {
	m, k, n := aShape.Rows, aShape.Cols, bShape.Cols
	c := make([]float32, m*n)
	if m == 0 || k == 0 || n == 0 {
		return c
	}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c})
	return c
}

// transposeKernel returns the row-major transpose of data with the given shape.
func transposeKernel(data []float32, shape shapes.Shape) []float32 {
	rows, cols := shape.Rows, shape.Cols
	out := make([]float32, len(data))
	for row := range rows {
		for col := range cols {
			out[col*rows+row] = data[row*cols+col]
		}
	}
	return out
}

// addKernel returns a + b element-wise. Both must have the same length.
func addKernel(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for ii := range out {
		out[ii] = a[ii] + b[ii]
	}
	return out
}
