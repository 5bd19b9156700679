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

package imgio

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ajroetker/go-imglib/img"
	"github.com/samber/lo"
)

var (
	// ErrNoHandler is returned when no handler is registered for a file's extension.
	ErrNoHandler = errors.New("no handler for extension")

	// ErrConflict is returned by Register when an extension is already taken.
	ErrConflict = errors.New("extension already registered")

	// ErrFormat is returned when a file's content is not a variant the
	// handler understands.
	ErrFormat = errors.New("unrecognised image content")

	// ErrUnsupported is returned for operations a handler does not implement,
	// such as writing a pixel type the format cannot hold.
	ErrUnsupported = errors.New("unsupported operation")
)

// Handler reads and writes one family of file formats.
type Handler interface {
	// Read decodes the file at path.
	Read(path string) (*img.Mat, error)

	// Write encodes m to path.
	Write(path string, m *img.Mat) error

	// Extensions lists the file extensions served, without the leading dot.
	Extensions() []string
}

// Registry maps lower-case file extensions to handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Handler
}

// NewRegistry returns a registry with no handlers.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Handler)}
}

// NewDefaultRegistry returns a registry with the built-in BMP and TIFF
// handlers and the PNG and JPEG placeholders.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range []Handler{BMPHandler{}, TIFFHandler{}, PNGHandler(), JPEGHandler()} {
		if err := r.Register(h); err != nil {
			// The built-in handlers serve disjoint extensions.
			panic(err)
		}
	}
	return r
}

// normalizeExtensions lower-cases exts, strips leading dots and drops empty
// and duplicate entries.
func normalizeExtensions(exts []string) []string {
	exts = lo.Map(exts, func(e string, _ int) string {
		return strings.ToLower(strings.TrimLeft(strings.TrimSpace(e), "."))
	})
	return lo.Uniq(lo.Compact(exts))
}

// Register adds h under each of its extensions. A nil handler or one without
// extensions is ignored. If any extension is already registered, nothing is
// added and the error matches ErrConflict.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return nil
	}
	exts := normalizeExtensions(h.Extensions())
	if len(exts) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	taken, ok := lo.Find(exts, func(e string) bool {
		_, dup := r.byExt[e]
		return dup
	})
	if ok {
		return fmt.Errorf("imgio: register %T for %q: %w", h, taken, ErrConflict)
	}
	for _, e := range exts {
		r.byExt[e] = h
	}
	return nil
}

// Extension returns the lower-case extension of path's base name without
// the dot. A base name without a dot, or whose only dot is its first
// character, has no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// Lookup returns the handler for path's extension.
func (r *Registry) Lookup(path string) (Handler, bool) {
	ext := Extension(path)
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byExt[ext]
	return h, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	exts := lo.Keys(r.byExt)
	r.mu.RUnlock()
	slices.Sort(exts)
	return exts
}

// Load decodes path with the handler registered for its extension.
func (r *Registry) Load(path string) (*img.Mat, error) {
	h, ok := r.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("imgio: load %s: %w", path, ErrNoHandler)
	}
	m, err := h.Read(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: load %s: %w", path, err)
	}
	if m.Empty() {
		return nil, fmt.Errorf("imgio: load %s: handler returned no pixels: %w", path, ErrFormat)
	}
	return m, nil
}

// Save encodes m to path with the handler registered for its extension.
func (r *Registry) Save(path string, m *img.Mat) error {
	if m.Empty() {
		return fmt.Errorf("imgio: save %s: %w", path, img.ErrEmptyMat)
	}
	h, ok := r.Lookup(path)
	if !ok {
		return fmt.Errorf("imgio: save %s: %w", path, ErrNoHandler)
	}
	if err := h.Write(path, m); err != nil {
		return fmt.Errorf("imgio: save %s: %w", path, err)
	}
	return nil
}

// Read is Load for callers that only need to know whether decoding worked.
// Every failure is logged through img.Logger and yields an empty Mat.
func (r *Registry) Read(path string) *img.Mat {
	m, err := r.Load(path)
	if err != nil {
		img.Logger().Warn("imgio: read failed", "path", path, "error", err)
		return &img.Mat{}
	}
	return m
}

// Write is Save reporting success as a bool. Failures are logged through
// img.Logger.
func (r *Registry) Write(path string, m *img.Mat) bool {
	if err := r.Save(path, m); err != nil {
		img.Logger().Warn("imgio: write failed", "path", path, "error", err)
		return false
	}
	return true
}
