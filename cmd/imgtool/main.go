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

// Command imgtool inspects and transforms image files with the img package.
//
// Usage:
//
//	imgtool info photo.bmp scan.tif
//	imgtool convert photo.bmp photo.tif --type 16UC3 --scale 257
//	imgtool rotate photo.bmp rotated.bmp --times 1
//	imgtool resize photo.bmp small.bmp --rows 120 --cols 160
//	imgtool brightness photo.bmp bright.bmp --delta 40
//	imgtool blend a.bmp b.bmp mix.bmp --alpha 0.3
//	imgtool crop photo.bmp face.bmp --x 10 --y 20 --width 64 --height 64
//	imgtool batch --to tif --out-dir converted --jobs 4 *.bmp
//
// The format of every file is chosen by its extension.
// Global flags select the allocator (--allocator heap|mmap|auto), atomic
// reference counts (--atomic-refcount) and debug logging (--verbose).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
