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

import "unsafe"

// rowBytes returns row r without checks. The slice is capped at the end of
// the row's pixels.
func (m *Mat) rowBytes(r int) []byte {
	start := m.offset + r*m.step
	end := start + m.cols*m.PixelSize()
	return m.store.data[start:end:end]
}

// Row returns the bytes of row r, Cols()*PixelSize() long.
// The slice aliases the storage: writes are visible through every Mat
// sharing it.
func (m *Mat) Row(r int) ([]byte, error) {
	if err := m.check("Mat.Row"); err != nil {
		return nil, err
	}
	if r < 0 || r >= m.rows {
		return nil, newError("Mat.Row", ErrOutOfRange, nil, "row %d outside [0, %d)", r, m.rows)
	}
	return m.rowBytes(r), nil
}

// Bytes returns the storage span from pixel (0,0) to the last pixel of the
// last row, or nil if m is empty. For a ROI the span includes the parts of
// the parent's rows that lie between the ROI's rows.
func (m *Mat) Bytes() []byte {
	if m.check("Mat.Bytes") != nil {
		return nil
	}
	end := m.offset + (m.rows-1)*m.step + m.cols*m.PixelSize()
	return m.store.data[m.offset:end:end]
}

func (m *Mat) checkPixel(op string, row, col int) error {
	if err := m.check(op); err != nil {
		return err
	}
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return newError(op, ErrOutOfRange, nil, "pixel (%d, %d) outside %dx%d", row, col, m.rows, m.cols)
	}
	return nil
}

func (m *Mat) pixelPtr(row, col int) unsafe.Pointer {
	return unsafe.Pointer(&m.store.data[m.offset+row*m.step+col*m.PixelSize()])
}

// UnsafeAt returns a pointer to the pixel at (row, col) reinterpreted as T.
//
// Only the bounds are checked. The caller guarantees that T matches the
// pixel layout (for example [3]uint8 for Type8UC3 or float32 for Type32FC1);
// a larger T reads past the pixel. Use PixelAt for a checked variant.
func UnsafeAt[T any](m *Mat, row, col int) (*T, error) {
	if err := m.checkPixel("UnsafeAt", row, col); err != nil {
		return nil, err
	}
	return (*T)(m.pixelPtr(row, col)), nil
}

// PixelAt is UnsafeAt with a layout check: m must have type want and T must
// occupy exactly want.PixelSize() bytes.
func PixelAt[T any](m *Mat, want PixelType, row, col int) (*T, error) {
	const op = "PixelAt"
	if err := m.check(op); err != nil {
		return nil, err
	}
	if m.typ != want {
		return nil, newError(op, ErrInvalidArgument, ErrTypeMismatch, "mat is %s, caller expects %s", m.typ, want)
	}
	var zero T
	if size := int(unsafe.Sizeof(zero)); size != want.PixelSize() {
		return nil, newError(op, ErrInvalidArgument, ErrTypeMismatch,
			"element of %d bytes does not match %s pixels of %d bytes", size, want, want.PixelSize())
	}
	if err := m.checkPixel(op, row, col); err != nil {
		return nil, err
	}
	return (*T)(m.pixelPtr(row, col)), nil
}

// RowAs returns row r as Cols()*Channels() elements of type T.
// T must be the element type of m's depth.
func RowAs[T Element](m *Mat, r int) ([]T, error) {
	const op = "RowAs"
	if err := m.check(op); err != nil {
		return nil, err
	}
	if d := depthOf[T](); d != m.typ.Depth() {
		return nil, newError(op, ErrInvalidArgument, ErrTypeMismatch, "mat depth is %s, element is %s", m.typ.Depth(), d)
	}
	if r < 0 || r >= m.rows {
		return nil, newError(op, ErrOutOfRange, nil, "row %d outside [0, %d)", r, m.rows)
	}
	return rowOf[T](m, r), nil
}

// rowOf views row r as elements without checks.
func rowOf[T Element](m *Mat, r int) []T {
	b := m.rowBytes(r)
	var zero T
	n := len(b) / int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// Get returns channel ch of pixel (row, col) as a float64.
func (m *Mat) Get(row, col, ch int) (float64, error) {
	if err := m.checkPixel("Mat.Get", row, col); err != nil {
		return 0, err
	}
	if ch < 0 || ch >= m.Channels() {
		return 0, newError("Mat.Get", ErrOutOfRange, nil, "channel %d outside [0, %d)", ch, m.Channels())
	}
	return kernelsFor(m.typ.Depth()).load(m.rowBytes(row), col*m.Channels()+ch), nil
}

// Set stores v into channel ch of pixel (row, col), rounding and
// saturating for integral depths.
func (m *Mat) Set(row, col, ch int, v float64) error {
	if err := m.checkPixel("Mat.Set", row, col); err != nil {
		return err
	}
	if ch < 0 || ch >= m.Channels() {
		return newError("Mat.Set", ErrOutOfRange, nil, "channel %d outside [0, %d)", ch, m.Channels())
	}
	kernelsFor(m.typ.Depth()).store(m.rowBytes(row), col*m.Channels()+ch, v)
	return nil
}

// Fill sets every channel of every pixel to v, saturated to the depth.
func (m *Mat) Fill(v float64) error {
	if err := m.check("Mat.Fill"); err != nil {
		return err
	}
	kernelsFor(m.typ.Depth()).apply(m, func(float64) float64 { return v })
	return nil
}
