//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package img

// MmapAllocator falls back to the Go heap on platforms without
// golang.org/x/sys/unix memory mappings.
type MmapAllocator struct {
	heap HeapAllocator
}

// Alloc returns size zeroed heap bytes.
func (a *MmapAllocator) Alloc(size int) ([]byte, error) {
	return a.heap.Alloc(size)
}

// Free is a no-op.
func (a *MmapAllocator) Free(buf []byte) {}

const mmapSupported = false
