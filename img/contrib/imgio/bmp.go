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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ajroetker/go-imglib/img"
	"golang.org/x/image/bmp"
)

// bmpFileHeader is the 14-byte BITMAPFILEHEADER.
type bmpFileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // file size in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // offset of the pixel array
}

// bmpInfoHeader is the 40-byte BITMAPINFOHEADER.
type bmpInfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32 // negative for top-down rows
	Planes          uint16
	BitCount        uint16
	Compression     uint32 // 0 is BI_RGB
	SizeImage       uint32
	XPixelsPerM     int32
	YPixelsPerM     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// BMPHandler reads and writes Windows bitmaps.
//
// Uncompressed 24- and 32-bit files are decoded natively: their BGR(A)
// bytes are copied verbatim into 8UC3 or 8UC4, including the fourth byte of
// 32-bit files. Other variants (palettes, 16-bit, bit fields) are decoded
// with golang.org/x/image/bmp and converted with FromImage.
// Write produces bottom-up uncompressed files from 8UC3 and 8UC4 Mats.
type BMPHandler struct{}

// Extensions implements Handler.
func (BMPHandler) Extensions() []string { return []string{"bmp", "dib"} }

// Read implements Handler.
func (BMPHandler) Read(path string) (*img.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeBMP(data)
}

func bmpStride(width, channels int) int {
	return (width*channels + 3) &^ 3
}

func decodeBMP(data []byte) (*img.Mat, error) {
	r := bytes.NewReader(data)
	var fh bmpFileHeader
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return nil, fmt.Errorf("bmp: file header: %w", ErrFormat)
	}
	if fh.Type != [2]byte{'B', 'M'} {
		return nil, fmt.Errorf("bmp: signature %q: %w", fh.Type[:], ErrFormat)
	}
	var ih bmpInfoHeader
	if err := binary.Read(r, binary.LittleEndian, &ih); err != nil {
		return nil, fmt.Errorf("bmp: info header: %w", ErrFormat)
	}

	if ih.Size < bmpInfoHeaderSize || ih.Compression != 0 || (ih.BitCount != 24 && ih.BitCount != 32) {
		return decodeBMPFallback(data, ih)
	}
	if ih.Width <= 0 || ih.Height == 0 {
		return nil, fmt.Errorf("bmp: invalid dimensions %dx%d: %w", ih.Width, ih.Height, ErrFormat)
	}

	width := int(ih.Width)
	height, topDown := int(ih.Height), false
	if height < 0 {
		height, topDown = -height, true
	}
	channels := int(ih.BitCount) / 8
	stride := bmpStride(width, channels)
	start := int(fh.OffBits)
	if start < bmpFileHeaderSize+int(ih.Size) || start > len(data) || (len(data)-start)/stride < height {
		return nil, fmt.Errorf("bmp: pixel data truncated: %w", ErrFormat)
	}

	m, err := img.New(height, width, img.MakeType(img.Depth8U, channels))
	if err != nil {
		return nil, fmt.Errorf("bmp: %w", err)
	}
	n := width * channels
	for y := 0; y < height; y++ {
		dy := height - 1 - y
		if topDown {
			dy = y
		}
		row, _ := m.Row(dy)
		src := data[start+y*stride:]
		copy(row, src[:n])
	}
	return m, nil
}

func decodeBMPFallback(data []byte, ih bmpInfoHeader) (*img.Mat, error) {
	im, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bmp: %d-bit, compression %d: %v: %w", ih.BitCount, ih.Compression, err, ErrFormat)
	}
	m, err := FromImage(im)
	if err != nil {
		return nil, fmt.Errorf("bmp: %w", err)
	}
	return m, nil
}

// Write implements Handler.
func (BMPHandler) Write(path string, m *img.Mat) (err error) {
	if m.Empty() {
		return fmt.Errorf("bmp: %w", img.ErrEmptyMat)
	}
	if m.Type() != img.Type8UC3 && m.Type() != img.Type8UC4 {
		return fmt.Errorf("bmp: cannot store %s, need 8UC3 or 8UC4: %w", m.Type(), ErrUnsupported)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := encodeBMP(w, m); err != nil {
		return err
	}
	return w.Flush()
}

func encodeBMP(w *bufio.Writer, m *img.Mat) error {
	width, height, channels := m.Cols(), m.Rows(), m.Channels()
	stride := bmpStride(width, channels)
	imageSize := stride * height
	if uint64(imageSize)+bmpFileHeaderSize+bmpInfoHeaderSize > 0xFFFFFFFF {
		return fmt.Errorf("bmp: %dx%d image too large: %w", width, height, ErrUnsupported)
	}

	fh := bmpFileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(bmpFileHeaderSize + bmpInfoHeaderSize + imageSize),
		OffBits: bmpFileHeaderSize + bmpInfoHeaderSize,
	}
	ih := bmpInfoHeader{
		Size:      bmpInfoHeaderSize,
		Width:     int32(width),
		Height:    int32(height), // bottom-up
		Planes:    1,
		BitCount:  uint16(8 * channels),
		SizeImage: uint32(imageSize),
	}
	if err := binary.Write(w, binary.LittleEndian, &fh); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &ih); err != nil {
		return err
	}

	buf := make([]byte, stride) // padding bytes stay zero
	for y := height - 1; y >= 0; y-- {
		row, err := m.Row(y)
		if err != nil {
			return err
		}
		copy(buf, row)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
