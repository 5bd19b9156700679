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

// Package imgio loads and stores img.Mat values through handlers selected
// by file extension.
//
// A Registry maps extensions to Handlers. NewDefaultRegistry serves BMP
// (native reader with a golang.org/x/image/bmp fallback), uncompressed TIFF
// (golang.org/x/image/tiff) and placeholder PNG and JPEG handlers:
//
//	reg := imgio.NewDefaultRegistry()
//	m := reg.Read("in.bmp") // empty Mat on failure
//	if m.Empty() {
//		return
//	}
//	defer m.Release()
//	ok := reg.Write("out.tif", m)
//
// Read and Write log failures through img.Logger and report them as an
// empty Mat or false. Load and Save return the error instead; it matches
// ErrNoHandler, ErrFormat, ErrUnsupported or an os error.
//
// Mats hold colour channels in BGR(A) order. FromImage and ToImage convert
// to and from the image.Image types of the standard library.
package imgio
