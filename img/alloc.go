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
	"unsafe"
)

// payloadAlign is the alignment every allocator guarantees for the start of
// a payload. It is the natural alignment of the widest channel type.
const payloadAlign = 8

// Allocator provides the pixel payload behind a Mat.
//
// Alloc must return a slice of exactly size bytes whose first byte is
// aligned to at least 8 bytes, or an error matching ErrOutOfMemory.
// Free receives the exact slice returned by Alloc once the last Mat
// referencing it is released.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates payloads on the Go heap.
// The payload is carved from a []uint64 so its alignment comes from the
// runtime rather than from padding.
type HeapAllocator struct {
	// Limit rejects requests larger than this many bytes. Zero means no limit.
	Limit int
}

// Alloc returns size zeroed bytes.
func (a *HeapAllocator) Alloc(size int) (buf []byte, err error) {
	if size <= 0 {
		return nil, newError("HeapAllocator.Alloc", ErrInvalidArgument, nil, "size %d", size)
	}
	if a.Limit > 0 && size > a.Limit {
		return nil, newError("HeapAllocator.Alloc", ErrOutOfMemory, nil,
			"requested %d bytes exceeds limit of %d bytes", size, a.Limit)
	}

	// A request the runtime cannot satisfy as a slice length panics inside
	// make; report it like any other allocation failure.
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = newError("HeapAllocator.Alloc", ErrOutOfMemory, nil,
				"requested %d bytes: %v", size, r)
		}
	}()

	words := size / payloadAlign
	if size%payloadAlign != 0 {
		words++
	}
	backing := make([]uint64, words)
	return unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), size), nil
}

// Free is a no-op; the garbage collector reclaims the backing array.
func (a *HeapAllocator) Free([]byte) {}

// AutoAllocator routes small requests to one allocator and large ones to another.
type AutoAllocator struct {
	Threshold int       // requests of at least this many bytes go to Large
	Small     Allocator // nil means a HeapAllocator without limit
	Large     Allocator // nil means an MmapAllocator
}

func (a *AutoAllocator) pick(size int) Allocator {
	if size >= a.Threshold {
		if a.Large == nil {
			return &MmapAllocator{}
		}
		return a.Large
	}
	if a.Small == nil {
		return &HeapAllocator{}
	}
	return a.Small
}

// Alloc forwards to Small or Large depending on size.
func (a *AutoAllocator) Alloc(size int) ([]byte, error) {
	return a.pick(size).Alloc(size)
}

// Free forwards to the allocator that served a request of len(buf) bytes.
func (a *AutoAllocator) Free(buf []byte) {
	a.pick(len(buf)).Free(buf)
}

// aligned reports whether the first byte of buf sits on an 8-byte boundary.
func aligned(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[0]))%payloadAlign == 0
}

// checkAllocation validates what an Allocator handed back.
func checkAllocation(buf []byte, size int) error {
	if len(buf) != size {
		return newError("allocate", ErrOutOfMemory, nil,
			"allocator returned %d bytes, want %d", len(buf), size)
	}
	if !aligned(buf) {
		return newError("allocate", ErrLogic, nil,
			"allocator returned a payload at %s not aligned to %d bytes",
			fmt.Sprintf("%p", unsafe.Pointer(&buf[0])), payloadAlign)
	}
	return nil
}
