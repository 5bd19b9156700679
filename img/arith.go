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

import "math"

// DivEpsilon is the magnitude below which a scalar divisor counts as zero.
const DivEpsilon = 1e-12

// The in-place methods below are the compound operators (+=, -=, *=, /=).
// Each channel is computed in float64 and narrowed with Saturate.
// The package-level functions of the same names are the plain operators:
// they clone the operand and never mutate it.

func (m *Mat) applyScalar(op string, f func(float64) float64) error {
	if err := m.check(op); err != nil {
		return err
	}
	kernelsFor(m.typ.Depth()).apply(m, f)
	return nil
}

// AddScalar adds s to every channel of m.
func (m *Mat) AddScalar(s float64) error {
	return m.applyScalar("Mat.AddScalar", func(x float64) float64 { return x + s })
}

// SubScalar subtracts s from every channel of m.
func (m *Mat) SubScalar(s float64) error {
	return m.applyScalar("Mat.SubScalar", func(x float64) float64 { return x - s })
}

// MulScalar multiplies every channel of m by s.
func (m *Mat) MulScalar(s float64) error {
	return m.applyScalar("Mat.MulScalar", func(x float64) float64 { return x * s })
}

// DivScalar divides every channel of m by s. It fails with ErrDivideByZero
// when |s| < DivEpsilon.
func (m *Mat) DivScalar(s float64) error {
	const op = "Mat.DivScalar"
	if err := m.check(op); err != nil {
		return err
	}
	if math.Abs(s) < DivEpsilon || math.IsNaN(s) {
		return newError(op, ErrDivideByZero, nil, "divisor %g", s)
	}
	return m.applyScalar(op, func(x float64) float64 { return x / s })
}

// CheckCompatibility reports whether a and b can be combined element by
// element: both non-empty with identical rows, cols and type.
func CheckCompatibility(a, b *Mat) error {
	const op = "CheckCompatibility"
	if a.Empty() || b.Empty() {
		return newError(op, ErrLogic, ErrEmptyMat, "operands %s and %s", a, b)
	}
	if err := a.check(op); err != nil {
		return err
	}
	if err := b.check(op); err != nil {
		return err
	}
	if a.rows != b.rows || a.cols != b.cols {
		return newError(op, ErrInvalidArgument, ErrSizeMismatch,
			"%dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	if a.typ != b.typ {
		return newError(op, ErrInvalidArgument, ErrTypeMismatch, "%s vs %s", a.typ, b.typ)
	}
	return nil
}

func (m *Mat) combineWith(op string, other *Mat, f func(x, y float64) float64) error {
	if err := CheckCompatibility(m, other); err != nil {
		return wrapError(op, err, "")
	}
	kernelsFor(m.typ.Depth()).combine(m, m, other, f)
	return nil
}

// Add adds other to m element by element. Both must be compatible.
func (m *Mat) Add(other *Mat) error {
	return m.combineWith("Mat.Add", other, func(x, y float64) float64 { return x + y })
}

// Sub subtracts other from m element by element. Both must be compatible.
func (m *Mat) Sub(other *Mat) error {
	return m.combineWith("Mat.Sub", other, func(x, y float64) float64 { return x - y })
}

// cloneThen clones m and applies the in-place operation f to the clone.
func cloneThen(op string, m *Mat, f func(*Mat) error) (*Mat, error) {
	dst, err := m.Clone()
	if err != nil {
		return nil, wrapError(op, err, "")
	}
	if err := f(dst); err != nil {
		dst.Release()
		return nil, err
	}
	return dst, nil
}

// AddScalar returns m + s as a new Mat. Addition is commutative, so this also
// serves for s + m.
func AddScalar(m *Mat, s float64) (*Mat, error) {
	return cloneThen("AddScalar", m, func(d *Mat) error { return d.AddScalar(s) })
}

// SubScalar returns m - s as a new Mat.
func SubScalar(m *Mat, s float64) (*Mat, error) {
	return cloneThen("SubScalar", m, func(d *Mat) error { return d.SubScalar(s) })
}

// MulScalar returns m * s as a new Mat. Also serves for s * m.
func MulScalar(m *Mat, s float64) (*Mat, error) {
	return cloneThen("MulScalar", m, func(d *Mat) error { return d.MulScalar(s) })
}

// DivScalar returns m / s as a new Mat.
func DivScalar(m *Mat, s float64) (*Mat, error) {
	if !m.Empty() && (math.Abs(s) < DivEpsilon || math.IsNaN(s)) {
		return nil, newError("DivScalar", ErrDivideByZero, nil, "divisor %g", s)
	}
	return cloneThen("DivScalar", m, func(d *Mat) error { return d.DivScalar(s) })
}

// Add returns a + b as a new Mat.
func Add(a, b *Mat) (*Mat, error) {
	if err := CheckCompatibility(a, b); err != nil {
		return nil, wrapError("Add", err, "")
	}
	return cloneThen("Add", a, func(d *Mat) error { return d.Add(b) })
}

// Sub returns a - b as a new Mat.
func Sub(a, b *Mat) (*Mat, error) {
	if err := CheckCompatibility(a, b); err != nil {
		return nil, wrapError("Sub", err, "")
	}
	return cloneThen("Sub", a, func(d *Mat) error { return d.Sub(b) })
}
