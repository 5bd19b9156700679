package img

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// AllocatorKind names one of the built-in allocation strategies.
type AllocatorKind int

const (
	// AllocHeap backs payloads with Go heap memory.
	AllocHeap AllocatorKind = iota

	// AllocMmap backs payloads with anonymous memory mappings.
	// Only unix builds map memory; other platforms use the heap.
	AllocMmap

	// AllocAuto maps payloads at or above the threshold and uses the heap below it.
	AllocAuto
)

// String returns the name used by IMGLIB_ALLOCATOR for the kind.
func (k AllocatorKind) String() string {
	switch k {
	case AllocHeap:
		return "heap"
	case AllocMmap:
		return "mmap"
	case AllocAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseAllocatorKind parses "heap", "mmap" or "auto".
func ParseAllocatorKind(s string) (AllocatorKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heap", "":
		return AllocHeap, true
	case "mmap":
		return AllocMmap, true
	case "auto":
		return AllocAuto, true
	}
	return AllocHeap, false
}

// DefaultMmapThreshold is the payload size at which AllocAuto switches to mmap.
const DefaultMmapThreshold = 1 << 20

// Config is a snapshot of the package settings.
type Config struct {
	Allocator      AllocatorKind
	MmapThreshold  int
	MaxAlloc       int // heap limit in bytes, 0 means unlimited
	AtomicRefCount bool
}

var (
	configMu sync.RWMutex
	config   Config

	// defaultAlloc is the allocator used by New and Create.
	defaultAlloc Allocator
)

func init() {
	config = configFromEnv()
	defaultAlloc = config.allocator()
}

// configFromEnv reads the IMGLIB_* environment variables.
// Malformed values fall back to the defaults.
func configFromEnv() Config {
	c := Config{
		Allocator:     AllocHeap,
		MmapThreshold: DefaultMmapThreshold,
	}
	if k, ok := ParseAllocatorKind(os.Getenv("IMGLIB_ALLOCATOR")); ok {
		c.Allocator = k
	}
	if n, ok := envInt("IMGLIB_MMAP_THRESHOLD"); ok && n > 0 {
		c.MmapThreshold = n
	}
	if n, ok := envInt("IMGLIB_MAX_ALLOC"); ok && n >= 0 {
		c.MaxAlloc = n
	}
	c.AtomicRefCount = envBool("IMGLIB_ATOMIC_REFCOUNT")
	return c
}

func (c Config) allocator() Allocator {
	heap := &HeapAllocator{Limit: c.MaxAlloc}
	switch c.Allocator {
	case AllocMmap:
		return &MmapAllocator{}
	case AllocAuto:
		return &AutoAllocator{Threshold: c.MmapThreshold, Small: heap, Large: &MmapAllocator{}}
	default:
		return heap
	}
}

// envBool reports whether the variable is set to a true value.
// Any non-empty value that does not parse as a bool counts as true.
func envBool(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func envInt(name string) (int, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 0)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// CurrentConfig returns the effective settings.
func CurrentConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// Configure replaces the settings and the default allocator built from them.
// Storage allocated earlier keeps the allocator and counter it was created with.
func Configure(c Config) {
	if c.MmapThreshold <= 0 {
		c.MmapThreshold = DefaultMmapThreshold
	}
	configMu.Lock()
	config = c
	defaultAlloc = c.allocator()
	configMu.Unlock()
}

// SetAllocator installs a as the allocator used by New and Create.
// Passing nil restores the allocator described by CurrentConfig.
func SetAllocator(a Allocator) {
	configMu.Lock()
	defer configMu.Unlock()
	if a == nil {
		a = config.allocator()
	}
	defaultAlloc = a
}

// SetAtomicRefCount selects atomic reference counters for storage
// allocated from now on.
func SetAtomicRefCount(on bool) {
	configMu.Lock()
	config.AtomicRefCount = on
	configMu.Unlock()
}

// currentAllocator returns the allocator and counter choice for a new storage record.
func currentAllocator() (Allocator, bool) {
	configMu.RLock()
	defer configMu.RUnlock()
	return defaultAlloc, config.AtomicRefCount
}
