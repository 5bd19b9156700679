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

// Package dense converts between img.Mat channels and gonum matrices, so
// linear-algebra routines from gonum.org/v1/gonum/mat can run on pixel data.
package dense

import (
	"fmt"

	"github.com/ajroetker/go-imglib/img"
	"gonum.org/v1/gonum/mat"
)

// ToDense copies channel ch of m into a new Rows() x Cols() matrix.
func ToDense(m *img.Mat, ch int) (*mat.Dense, error) {
	if m.Empty() {
		return nil, fmt.Errorf("dense: ToDense: %w", img.ErrEmptyMat)
	}
	if ch < 0 || ch >= m.Channels() {
		return nil, fmt.Errorf("dense: ToDense: channel %d of %s: %w", ch, m.Type(), img.ErrOutOfRange)
	}
	rows, cols := m.Rows(), m.Cols()
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v, err := m.Get(r, c, ch)
			if err != nil {
				return nil, fmt.Errorf("dense: ToDense: %w", err)
			}
			data[r*cols+c] = v
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// FromDense copies d into a new single-channel Mat of type typ, narrowing
// each element with img.Saturate.
func FromDense(d mat.Matrix, typ img.PixelType) (*img.Mat, error) {
	if d == nil {
		return nil, fmt.Errorf("dense: FromDense: nil matrix: %w", img.ErrInvalidArgument)
	}
	if typ.Channels() != 1 {
		return nil, fmt.Errorf("dense: FromDense: %s is not single-channel: %w", typ, img.ErrInvalidArgument)
	}
	rows, cols := d.Dims()
	m, err := img.New(rows, cols, typ)
	if err != nil {
		return nil, fmt.Errorf("dense: FromDense: %w", err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			_ = m.Set(r, c, 0, d.At(r, c))
		}
	}
	return m, nil
}

// Split returns one matrix per channel of m.
func Split(m *img.Mat) ([]*mat.Dense, error) {
	if m.Empty() {
		return nil, fmt.Errorf("dense: Split: %w", img.ErrEmptyMat)
	}
	out := make([]*mat.Dense, m.Channels())
	for ch := range out {
		d, err := ToDense(m, ch)
		if err != nil {
			return nil, err
		}
		out[ch] = d
	}
	return out, nil
}
