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
	"errors"
	"math"
	"testing"
)

func filled(t *testing.T, rows, cols int, typ PixelType, v float64) *Mat {
	t.Helper()
	m := mustNew(t, rows, cols, typ)
	if err := m.Fill(v); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestScalarSaturation(t *testing.T) {
	tests := []struct {
		name  string
		typ   PixelType
		start float64
		op    func(*Mat) error
		want  float64
	}{
		{"8U add clamps high", Type8UC3, 250, func(m *Mat) error { return m.AddScalar(50) }, 255},
		{"8U sub clamps low", Type8UC1, 10, func(m *Mat) error { return m.SubScalar(20) }, 0},
		{"8U mul rounds half up", Type8UC1, 3, func(m *Mat) error { return m.MulScalar(0.5) }, 2},
		{"8U mul rounds half away", Type8UC1, 5, func(m *Mat) error { return m.MulScalar(0.5) }, 3},
		{"8U div", Type8UC1, 200, func(m *Mat) error { return m.DivScalar(3) }, 67},
		{"16U add clamps high", Type16UC1, 65530, func(m *Mat) error { return m.AddScalar(10) }, 65535},
		{"16U sub clamps low", Type16UC4, 5, func(m *Mat) error { return m.SubScalar(6) }, 0},
		{"32S add clamps high", Type32SC1, math.MaxInt32, func(m *Mat) error { return m.AddScalar(10) }, math.MaxInt32},
		{"32S sub clamps low", Type32SC1, math.MinInt32, func(m *Mat) error { return m.SubScalar(1) }, math.MinInt32},
		{"32S negative", Type32SC3, 5, func(m *Mat) error { return m.SubScalar(12) }, -7},
		{"32F no clamp", Type32FC1, 250, func(m *Mat) error { return m.AddScalar(50) }, 300},
		{"64F fraction", Type64FC1, 1, func(m *Mat) error { return m.DivScalar(4) }, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := filled(t, 2, 3, tt.typ, tt.start)
			defer m.Release()
			if err := tt.op(m); err != nil {
				t.Fatal(err)
			}
			for i, v := range values(t, m) {
				if v != tt.want {
					t.Fatalf("element %d: got %v, want %v", i, v, tt.want)
				}
			}
		})
	}
}

func TestScalarFloatOverflow(t *testing.T) {
	m := filled(t, 1, 2, Type32FC1, 3e38)
	defer m.Release()
	if err := m.MulScalar(10); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get(0, 1, 0); !math.IsInf(v, 1) {
		t.Errorf("32F overflow: got %v, want +Inf", v)
	}
}

func TestScalarOperators_DoNotMutate(t *testing.T) {
	m := filled(t, 2, 2, Type8UC1, 100)
	defer m.Release()

	ops := map[string]func(*Mat, float64) (*Mat, error){
		"AddScalar": AddScalar,
		"SubScalar": SubScalar,
		"MulScalar": MulScalar,
		"DivScalar": DivScalar,
	}
	want := map[string]float64{
		"AddScalar": 102,
		"SubScalar": 98,
		"MulScalar": 200,
		"DivScalar": 50,
	}
	for name, op := range ops {
		out, err := op(m, 2)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if out.SharesStorage(m) {
			t.Errorf("%s: result shares storage with operand", name)
		}
		if v, _ := out.Get(1, 1, 0); v != want[name] {
			t.Errorf("%s: got %v, want %v", name, v, want[name])
		}
		out.Release()
	}
	if v, _ := m.Get(0, 0, 0); v != 100 || m.RefCount() != 1 {
		t.Errorf("operand changed: value %v refs %d", v, m.RefCount())
	}
}

func TestDivScalar_Zero(t *testing.T) {
	m := filled(t, 2, 2, Type8UC1, 9)
	defer m.Release()

	for _, s := range []float64{0, 1e-13, -1e-13, math.NaN()} {
		if err := m.DivScalar(s); !errors.Is(err, ErrDivideByZero) {
			t.Errorf("DivScalar(%v): got %v, want ErrDivideByZero", s, err)
		}
		if out, err := DivScalar(m, s); !errors.Is(err, ErrDivideByZero) || out != nil {
			t.Errorf("DivScalar(m, %v): got %v, %v, want ErrDivideByZero", s, out, err)
		}
	}
	if v, _ := m.Get(0, 0, 0); v != 9 {
		t.Errorf("failed division changed the Mat: got %v", v)
	}
	if err := m.DivScalar(DivEpsilon); err != nil {
		t.Errorf("DivScalar(DivEpsilon): unexpected error %v", err)
	}
}

func TestScalar_Empty(t *testing.T) {
	var m Mat
	if err := m.AddScalar(1); !errors.Is(err, ErrLogic) || !errors.Is(err, ErrEmptyMat) {
		t.Errorf("AddScalar on empty: got %v, want ErrLogic and ErrEmptyMat", err)
	}
	if _, err := MulScalar(&m, 2); !errors.Is(err, ErrLogic) {
		t.Errorf("MulScalar(empty): got %v, want ErrLogic", err)
	}
}

func TestCheckCompatibility(t *testing.T) {
	a := mustNew(t, 10, 10, Type8UC3)
	defer a.Release()
	same := mustNew(t, 10, 10, Type8UC3)
	defer same.Release()
	small := mustNew(t, 5, 5, Type8UC3)
	defer small.Release()
	gray := mustNew(t, 10, 10, Type8UC1)
	defer gray.Release()

	if err := CheckCompatibility(a, same); err != nil {
		t.Errorf("compatible: unexpected error %v", err)
	}

	err := CheckCompatibility(a, small)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: got %v", err)
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Errorf("size mismatch also reports type mismatch: %v", err)
	}

	err = CheckCompatibility(a, gray)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("type mismatch: got %v", err)
	}
	if errors.Is(err, ErrSizeMismatch) {
		t.Errorf("type mismatch also reports size mismatch: %v", err)
	}

	if err := CheckCompatibility(a, &Mat{}); !errors.Is(err, ErrLogic) {
		t.Errorf("empty operand: got %v, want ErrLogic", err)
	}
	if err := CheckCompatibility(nil, a); !errors.Is(err, ErrLogic) {
		t.Errorf("nil operand: got %v, want ErrLogic", err)
	}

	var e *Error
	if !errors.As(CheckCompatibility(a, small), &e) || e.Op != "CheckCompatibility" {
		t.Errorf("errors.As: got %+v", e)
	}
}

func TestAddSub(t *testing.T) {
	a := filled(t, 3, 3, Type8UC1, 200)
	defer a.Release()
	b := filled(t, 3, 3, Type8UC1, 100)
	defer b.Release()

	sum, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	defer sum.Release()
	if v, _ := sum.Get(2, 2, 0); v != 255 {
		t.Errorf("Add: got %v, want 255", v)
	}

	diff, err := Sub(b, a)
	if err != nil {
		t.Fatal(err)
	}
	defer diff.Release()
	if v, _ := diff.Get(0, 0, 0); v != 0 {
		t.Errorf("Sub: got %v, want 0", v)
	}

	if v, _ := a.Get(0, 0, 0); v != 200 {
		t.Errorf("Add mutated operand: got %v", v)
	}

	if err := a.Sub(b); err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Get(1, 1, 0); v != 100 {
		t.Errorf("in-place Sub: got %v, want 100", v)
	}
	if err := a.Add(a); err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Get(1, 1, 0); v != 200 {
		t.Errorf("in-place Add with itself: got %v, want 200", v)
	}

	small := mustNew(t, 2, 2, Type8UC1)
	defer small.Release()
	if err := a.Add(small); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Add size mismatch: got %v", err)
	}
	if out, err := Sub(a, small); !errors.Is(err, ErrSizeMismatch) || out != nil {
		t.Errorf("Sub size mismatch: got %v, %v", out, err)
	}
}

func TestAdd_ROIs(t *testing.T) {
	m := filled(t, 4, 4, Type16UC1, 1)
	defer m.Release()
	left, err := m.ROI(0, 0, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer left.Release()
	right, err := m.ROI(2, 0, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer right.Release()
	if err := right.AddScalar(4); err != nil {
		t.Fatal(err)
	}

	if err := left.Add(right); err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v, _ := m.Get(r, c, 0)
			want := 6.0
			if c >= 2 {
				want = 5
			}
			if v != want {
				t.Errorf("m(%d,%d): got %v, want %v", r, c, v, want)
			}
		}
	}
}
