// Copyright 2025 go-imglib Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package img

import (
	"math"
	"unsafe"
)

// This file provides saturating narrowing from float64 and the per-depth
// kernel table every pixel loop dispatches through.
// Integral results are rounded to nearest (half away from zero) and then
// clamped to the type's valid range instead of wrapping. For example,
// uint8: 250 + 50 = 255 (not 44). Floating-point results are a plain cast.

// Saturate narrows v to T with the rules above. NaN narrows to 0 for
// integral types.
func Saturate[T Element](v float64) T {
	return saturator[T]()(v)
}

// saturator returns the narrowing function for T, chosen once per call site.
func saturator[T Element]() func(float64) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return func(v float64) T { return T(roundClamp(v, 0, math.MaxUint8)) }
	case uint16:
		return func(v float64) T { return T(roundClamp(v, 0, math.MaxUint16)) }
	case int32:
		return func(v float64) T { return T(roundClamp(v, math.MinInt32, math.MaxInt32)) }
	default:
		return func(v float64) T { return T(v) }
	}
}

func roundClamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// kernels holds the loops for one depth. Each loop computes in float64 and
// narrows with the depth's saturator.
type kernels struct {
	depth Depth

	// load and store access element i of a row.
	load  func(row []byte, i int) float64
	store func(row []byte, i int, v float64)

	// loadRow widens a whole row into out; storeRow narrows in into a row.
	loadRow  func(row []byte, out []float64)
	storeRow func(row []byte, in []float64)

	// apply replaces every element x of m with f(x).
	apply func(m *Mat, f func(x float64) float64)

	// combine writes f(a, b) into dst element by element. All three must have
	// the same shape and depth; dst may be a or b.
	combine func(dst, a, b *Mat, f func(x, y float64) float64)
}

func newKernels[T Element]() kernels {
	sat := saturator[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	return kernels{
		depth: depthOf[T](),
		load: func(row []byte, i int) float64 {
			return float64(*(*T)(unsafe.Pointer(&row[i*size])))
		},
		store: func(row []byte, i int, v float64) {
			*(*T)(unsafe.Pointer(&row[i*size])) = sat(v)
		},
		loadRow: func(row []byte, out []float64) {
			src := unsafe.Slice((*T)(unsafe.Pointer(&row[0])), len(row)/size)
			for i, v := range src {
				out[i] = float64(v)
			}
		},
		storeRow: func(row []byte, in []float64) {
			dst := unsafe.Slice((*T)(unsafe.Pointer(&row[0])), len(row)/size)
			for i := range dst {
				dst[i] = sat(in[i])
			}
		},
		apply: func(m *Mat, f func(float64) float64) {
			for r := 0; r < m.rows; r++ {
				row := rowOf[T](m, r)
				for i, v := range row {
					row[i] = sat(f(float64(v)))
				}
			}
		},
		combine: func(dst, a, b *Mat, f func(x, y float64) float64) {
			for r := 0; r < dst.rows; r++ {
				d := rowOf[T](dst, r)
				x := rowOf[T](a, r)
				y := rowOf[T](b, r)
				for i := range d {
					d[i] = sat(f(float64(x[i]), float64(y[i])))
				}
			}
		},
	}
}

// depthKernels is indexed by Depth.
var depthKernels = [numDepths]kernels{
	Depth8U:  newKernels[uint8](),
	Depth16U: newKernels[uint16](),
	Depth32S: newKernels[int32](),
	Depth32F: newKernels[float32](),
	Depth64F: newKernels[float64](),
}

// kernelsFor returns the loops for d, which must be valid.
func kernelsFor(d Depth) *kernels {
	return &depthKernels[d]
}
