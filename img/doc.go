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

// Package img provides a reference-counted 2-D pixel buffer, Mat, with
// saturating arithmetic and type conversion.
//
// A Mat has a PixelType combining a channel depth (8U, 16U, 32S, 32F, 64F)
// with 1, 3 or 4 interleaved channels. Rows are stored back to back; a ROI
// view keeps its parent's step.
//
// # Ownership
//
// Mats share storage explicitly:
//
//	a, _ := img.New(480, 640, img.Type8UC3) // refs=1
//	b := a.Share()                          // refs=2, same pixels
//	roi, _ := a.ROI(10, 10, 64, 64)         // refs=3, sub-region view
//	c, _ := a.Clone()                       // independent copy, refs=1
//	b.Release()                             // refs=2
//
// Writes through a, roi or any other alias are visible through all of them.
// Reference counts are plain integers unless SetAtomicRefCount(true) or
// IMGLIB_ATOMIC_REFCOUNT is set; even then, pixel access needs external
// synchronisation.
//
// # Arithmetic
//
// Methods mutate in place, package functions return new Mats:
//
//	a.AddScalar(50)            // a += 50, 8U channels saturate at 255
//	sum, _ := img.Add(a, c)    // new Mat, a and c untouched
//	f, _ := a.ConvertTo(img.Type32FC3)
//
// Values are computed in float64; integral depths round to nearest and
// clamp, float depths are a plain cast.
//
// # Configuration
//
// Environment variables read at start-up:
//
//	IMGLIB_ALLOCATOR        heap (default), mmap or auto
//	IMGLIB_MMAP_THRESHOLD   payload bytes at which auto switches to mmap
//	IMGLIB_MAX_ALLOC        heap allocation limit in bytes, 0 for none
//	IMGLIB_ATOMIC_REFCOUNT  use atomic reference counters
//
// Configure, SetAllocator and SetAtomicRefCount override them at run time.
package img
