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

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package img

import "golang.org/x/sys/unix"

// MmapAllocator backs each payload with its own anonymous private mapping.
// Mappings are page aligned and returned to the kernel by Free, so a Mat
// using this allocator must be released explicitly.
type MmapAllocator struct{}

// Alloc maps size bytes of zeroed memory.
func (a *MmapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, newError("MmapAllocator.Alloc", ErrInvalidArgument, nil, "size %d", size)
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, newError("MmapAllocator.Alloc", ErrOutOfMemory, err, "mapping %d bytes", size)
	}
	return buf, nil
}

// Free unmaps a payload returned by Alloc.
func (a *MmapAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	if err := unix.Munmap(buf); err != nil {
		Logger().Warn("img: munmap failed", "bytes", len(buf), "error", err)
	}
}

// mmapSupported reports whether MmapAllocator really maps memory.
const mmapSupported = true
