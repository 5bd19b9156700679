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
	"fmt"
	"math"
)

// TypeNone is reported by Type for an empty Mat.
const TypeNone PixelType = -1

// Mat is a header over a reference-counted 2-D pixel block.
//
// Several Mats may reference one block: Share and Assign add a reference,
// ROI adds a reference to a sub-region view, Move transfers one. Writes
// through any of them are visible through all of them; use Clone for an
// independent copy.
//
// A Mat header must not be copied with plain Go assignment: the copy would
// not hold a reference of its own. Use Share instead.
//
// The zero value is an empty Mat.
type Mat struct {
	rows     int
	cols     int
	typ      PixelType
	chanSize int
	step     int // bytes between row starts
	offset   int // byte offset of pixel (0,0) in store.data
	store    *storage
}

// New allocates a rows x cols Mat of type typ from the default allocator.
func New(rows, cols int, typ PixelType) (*Mat, error) {
	m := &Mat{}
	if err := m.Create(rows, cols, typ); err != nil {
		return nil, err
	}
	return m, nil
}

// NewWith is like New but allocates from a.
func NewWith(a Allocator, rows, cols int, typ PixelType) (*Mat, error) {
	if a == nil {
		return nil, newError("NewWith", ErrInvalidArgument, nil, "nil allocator")
	}
	m := &Mat{}
	_, atomicCounter := currentAllocator()
	if err := m.allocate(a, atomicCounter, rows, cols, typ); err != nil {
		return nil, wrapError("NewWith", err, "rows=%d cols=%d type=%s", rows, cols, typ)
	}
	return m, nil
}

func mulChecked(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// allocate validates the request and attaches fresh storage to m, which
// must be empty. On failure m stays empty.
func (m *Mat) allocate(a Allocator, atomicCounter bool, rows, cols int, typ PixelType) error {
	const op = "allocate"
	switch {
	case rows < 0 || cols < 0:
		return newError(op, ErrInvalidArgument, nil, "negative dimensions %dx%d", rows, cols)
	case rows == 0 && cols == 0:
		return newError(op, ErrInvalidArgument, nil, "zero dimensions")
	case rows == 0 || cols == 0:
		return newError(op, ErrInvalidArgument, nil, "rows and cols must both be non-zero, got %dx%d", rows, cols)
	}
	if err := typ.Validate(); err != nil {
		return err
	}

	chanSize := typ.Depth().Size()
	pixelSize := chanSize * typ.Channels()
	step, ok := mulChecked(cols, pixelSize)
	if !ok {
		return newError(op, ErrOverflow, nil, "row of %d pixels of %d bytes", cols, pixelSize)
	}
	size, ok := mulChecked(rows, step)
	if !ok {
		return newError(op, ErrOverflow, nil, "%d rows of %d bytes", rows, step)
	}

	s, err := newStorage(a, atomicCounter, size)
	if err != nil {
		*m = Mat{}
		return newError(op, ErrOutOfMemory, err, "failed to allocate %d bytes", size)
	}
	*m = Mat{
		rows:     rows,
		cols:     cols,
		typ:      typ,
		chanSize: chanSize,
		step:     step,
		store:    s,
	}
	return nil
}

// Create makes m a rows x cols Mat of type typ. It does nothing if m already
// has that shape and type; otherwise it releases m first.
func (m *Mat) Create(rows, cols int, typ PixelType) error {
	if m.store != nil && m.rows == rows && m.cols == cols && m.typ == typ {
		return nil
	}
	m.Release()
	a, atomicCounter := currentAllocator()
	if err := m.allocate(a, atomicCounter, rows, cols, typ); err != nil {
		return wrapError("Mat.Create", err, "rows=%d cols=%d type=%s", rows, cols, typ)
	}
	return nil
}

// Release drops m's reference to its storage, freeing the storage if that was
// the last reference, and resets m to empty. Releasing an empty Mat is a no-op.
func (m *Mat) Release() {
	if m.store != nil && m.store.live() {
		m.store.release()
	}
	*m = Mat{}
}

// check returns an error if m cannot be read from.
func (m *Mat) check(op string) error {
	if m == nil || m.store == nil {
		return errEmpty(op)
	}
	if !m.store.live() {
		return newError(op, ErrLogic, nil, "header refers to released storage")
	}
	return nil
}

// Clone returns an independent deep copy of m with its own storage.
// A Clone of a ROI is packed: its step is Cols()*PixelSize().
func (m *Mat) Clone() (*Mat, error) {
	if err := m.check("Mat.Clone"); err != nil {
		return nil, err
	}
	dst, err := New(m.rows, m.cols, m.typ)
	if err != nil {
		return nil, wrapError("Mat.Clone", err, "%s", m)
	}
	if m.step == dst.step {
		copy(dst.store.data, m.Bytes())
		return dst, nil
	}
	n := m.cols * m.PixelSize()
	for r := 0; r < m.rows; r++ {
		copy(dst.rowBytes(r), m.rowBytes(r)[:n])
	}
	return dst, nil
}

// Share returns a new header referencing m's storage.
// Sharing an empty Mat returns an empty Mat.
func (m *Mat) Share() *Mat {
	if m.check("Mat.Share") != nil {
		return &Mat{}
	}
	m.store.retain()
	c := *m
	return &c
}

// Assign makes m share src's storage, releasing whatever m referenced before.
// Assigning a Mat to itself does nothing; a nil or empty src empties m.
func (m *Mat) Assign(src *Mat) {
	if m == src {
		return
	}
	if src == nil || src.check("Mat.Assign") != nil {
		m.Release()
		return
	}
	if *m == *src {
		return
	}
	// Retain first so m and src sharing one storage cannot free it.
	src.store.retain()
	m.Release()
	*m = *src
}

// Move returns a header that takes over m's reference and leaves m empty.
func (m *Mat) Move() *Mat {
	c := *m
	*m = Mat{}
	return &c
}

// MoveFrom releases m, takes over src's reference and leaves src empty.
// Moving a Mat into itself does nothing.
func (m *Mat) MoveFrom(src *Mat) {
	if m == src {
		return
	}
	m.Release()
	if src == nil {
		return
	}
	*m = *src
	*src = Mat{}
}

// ROI returns a view of the width x height region whose top-left pixel is
// (x, y) in m. The view shares m's storage and step.
func (m *Mat) ROI(x, y, width, height int) (*Mat, error) {
	const op = "Mat.ROI"
	if err := m.check(op); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || x < 0 || y < 0 ||
		x >= m.cols || y >= m.rows ||
		width > m.cols-x || height > m.rows-y {
		return nil, newError(op, ErrOutOfRange, nil,
			"region (x=%d, y=%d, w=%d, h=%d) outside %dx%d (rows x cols)",
			x, y, width, height, m.rows, m.cols)
	}
	m.store.retain()
	return &Mat{
		rows:     height,
		cols:     width,
		typ:      m.typ,
		chanSize: m.chanSize,
		step:     m.step,
		offset:   m.offset + y*m.step + x*m.PixelSize(),
		store:    m.store,
	}, nil
}

// Empty reports whether m references no storage.
func (m *Mat) Empty() bool { return m == nil || m.store == nil }

// Rows returns the number of rows.
func (m *Mat) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Mat) Cols() int { return m.cols }

// Total returns Rows()*Cols().
func (m *Mat) Total() int { return m.rows * m.cols }

// Type returns the pixel type, or TypeNone if m is empty.
func (m *Mat) Type() PixelType {
	if m.Empty() {
		return TypeNone
	}
	return m.typ
}

// Depth returns the channel depth, or -1 if m is empty.
func (m *Mat) Depth() Depth {
	if m.Empty() {
		return -1
	}
	return m.typ.Depth()
}

// Channels returns the channel count, or 0 if m is empty.
func (m *Mat) Channels() int {
	if m.Empty() {
		return 0
	}
	return m.typ.Channels()
}

// ChannelSize returns the bytes per channel element.
func (m *Mat) ChannelSize() int { return m.chanSize }

// PixelSize returns ChannelSize()*Channels().
func (m *Mat) PixelSize() int { return m.chanSize * m.Channels() }

// Step returns the number of bytes between the starts of consecutive rows.
func (m *Mat) Step() int { return m.step }

// IsContinuous reports whether rows follow each other without gaps.
func (m *Mat) IsContinuous() bool {
	return !m.Empty() && m.step == m.cols*m.PixelSize()
}

// RefCount returns the number of Mats referencing m's storage, or 0 if empty.
func (m *Mat) RefCount() int {
	if m.Empty() {
		return 0
	}
	return int(m.store.refs.load())
}

// SharesStorage reports whether m and other reference the same storage.
func (m *Mat) SharesStorage(other *Mat) bool {
	return !m.Empty() && !other.Empty() && m.store == other.store
}

// String summarises the header, for example "Mat 8UC3 480x640 step=1920 refs=1".
func (m *Mat) String() string {
	if m.Empty() {
		return "Mat(empty)"
	}
	return fmt.Sprintf("Mat %s %dx%d step=%d refs=%d", m.typ, m.rows, m.cols, m.step, m.RefCount())
}
