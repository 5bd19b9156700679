package imgio

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/ajroetker/go-imglib/img"
)

// Mats keep colour channels in BGR(A) order; image.Image types use RGB(A).
// The conversions below swap the order and, for 16-bit images, the byte
// order (image.Image pixel buffers are big-endian).

// FromImage copies src into a new Mat.
//
//   - *image.Gray and *image.Gray16 become 8UC1 and 16UC1.
//   - 16-bit colour images become 16UC3 when opaque, 16UC4 otherwise.
//   - Every other image becomes 8UC3 when opaque, 8UC4 (straight alpha) otherwise.
func FromImage(src image.Image) (*img.Mat, error) {
	if src == nil {
		return nil, fmt.Errorf("imgio: FromImage: nil image: %w", img.ErrInvalidArgument)
	}
	if b := src.Bounds(); b.Empty() {
		return nil, fmt.Errorf("imgio: FromImage: empty bounds %v: %w", b, img.ErrInvalidArgument)
	}

	switch s := src.(type) {
	case *image.Gray:
		return fromGray(s)
	case *image.Gray16:
		return fromGray16(s)
	case *image.NRGBA:
		return from8(s.Rect, s.Opaque(), func(y int) []byte { return s.Pix[s.PixOffset(s.Rect.Min.X, y):] })
	case *image.RGBA:
		if s.Opaque() {
			return from8(s.Rect, true, func(y int) []byte { return s.Pix[s.PixOffset(s.Rect.Min.X, y):] })
		}
	case *image.NRGBA64:
		return from16(s.Rect, s.Opaque(), func(y int) []byte { return s.Pix[s.PixOffset(s.Rect.Min.X, y):] })
	case *image.RGBA64:
		if s.Opaque() {
			return from16(s.Rect, true, func(y int) []byte { return s.Pix[s.PixOffset(s.Rect.Min.X, y):] })
		}
		return fromGeneric16(s)
	}
	return fromGeneric(src)
}

func newMat(rows, cols int, typ img.PixelType) (*img.Mat, error) {
	m, err := img.New(rows, cols, typ)
	if err != nil {
		return nil, fmt.Errorf("imgio: %w", err)
	}
	return m, nil
}

func channelsFor(opaque bool) int {
	if opaque {
		return 3
	}
	return 4
}

func fromGray(s *image.Gray) (*img.Mat, error) {
	b := s.Rect
	m, err := newMat(b.Dy(), b.Dx(), img.Type8UC1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		row, _ := m.Row(y)
		copy(row, s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return m, nil
}

func fromGray16(s *image.Gray16) (*img.Mat, error) {
	b := s.Rect
	m, err := newMat(b.Dy(), b.Dx(), img.Type16UC1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		row, _ := img.RowAs[uint16](m, y)
		src := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := range row {
			row[x] = binary.BigEndian.Uint16(src[2*x:])
		}
	}
	return m, nil
}

// from8 copies 8-bit RGBA rows; pix returns the buffer starting at the first
// pixel of image row y.
func from8(b image.Rectangle, opaque bool, pix func(y int) []byte) (*img.Mat, error) {
	cn := channelsFor(opaque)
	m, err := newMat(b.Dy(), b.Dx(), img.MakeType(img.Depth8U, cn))
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		dst, _ := m.Row(y)
		src := pix(b.Min.Y + y)
		for i, j := 0, 0; i < len(dst); i, j = i+cn, j+4 {
			dst[i], dst[i+1], dst[i+2] = src[j+2], src[j+1], src[j]
			if cn == 4 {
				dst[i+3] = src[j+3]
			}
		}
	}
	return m, nil
}

// from16 is from8 for big-endian 16-bit RGBA rows.
func from16(b image.Rectangle, opaque bool, pix func(y int) []byte) (*img.Mat, error) {
	cn := channelsFor(opaque)
	m, err := newMat(b.Dy(), b.Dx(), img.MakeType(img.Depth16U, cn))
	if err != nil {
		return nil, err
	}
	be := binary.BigEndian
	for y := 0; y < b.Dy(); y++ {
		dst, _ := img.RowAs[uint16](m, y)
		src := pix(b.Min.Y + y)
		for i, j := 0, 0; i < len(dst); i, j = i+cn, j+8 {
			dst[i], dst[i+1], dst[i+2] = be.Uint16(src[j+4:]), be.Uint16(src[j+2:]), be.Uint16(src[j:])
			if cn == 4 {
				dst[i+3] = be.Uint16(src[j+6:])
			}
		}
	}
	return m, nil
}

func isOpaque(src image.Image) bool {
	o, ok := src.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// fromGeneric converts any image through color.NRGBAModel.
func fromGeneric(src image.Image) (*img.Mat, error) {
	b := src.Bounds()
	cn := channelsFor(isOpaque(src))
	m, err := newMat(b.Dy(), b.Dx(), img.MakeType(img.Depth8U, cn))
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		dst, _ := m.Row(y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := x * cn
			dst[i], dst[i+1], dst[i+2] = c.B, c.G, c.R
			if cn == 4 {
				dst[i+3] = c.A
			}
		}
	}
	return m, nil
}

// fromGeneric16 converts a translucent 16-bit image to straight alpha.
func fromGeneric16(src image.Image) (*img.Mat, error) {
	b := src.Bounds()
	m, err := newMat(b.Dy(), b.Dx(), img.Type16UC4)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		dst, _ := img.RowAs[uint16](m, y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = c.B, c.G, c.R, c.A
		}
	}
	return m, nil
}

// ToImage copies m into a new image.Image:
//
//	8UC1  -> *image.Gray      16UC1 -> *image.Gray16
//	8UC3  -> *image.RGBA      16UC3 -> *image.RGBA64 (opaque)
//	8UC4  -> *image.NRGBA     16UC4 -> *image.NRGBA64
//
// Other pixel types fail with ErrUnsupported.
func ToImage(m *img.Mat) (image.Image, error) {
	if m.Empty() {
		return nil, fmt.Errorf("imgio: ToImage: %w", img.ErrEmptyMat)
	}
	rect := image.Rect(0, 0, m.Cols(), m.Rows())
	be := binary.BigEndian

	switch m.Type() {
	case img.Type8UC1:
		dst := image.NewGray(rect)
		for y := 0; y < m.Rows(); y++ {
			row, _ := m.Row(y)
			copy(dst.Pix[y*dst.Stride:], row)
		}
		return dst, nil

	case img.Type16UC1:
		dst := image.NewGray16(rect)
		for y := 0; y < m.Rows(); y++ {
			row, _ := img.RowAs[uint16](m, y)
			out := dst.Pix[y*dst.Stride:]
			for x, v := range row {
				be.PutUint16(out[2*x:], v)
			}
		}
		return dst, nil

	case img.Type8UC3, img.Type8UC4:
		cn := m.Channels()
		var pix []byte
		var stride int
		var out image.Image
		if cn == 3 {
			d := image.NewRGBA(rect)
			pix, stride, out = d.Pix, d.Stride, d
		} else {
			d := image.NewNRGBA(rect)
			pix, stride, out = d.Pix, d.Stride, d
		}
		for y := 0; y < m.Rows(); y++ {
			row, _ := m.Row(y)
			dst := pix[y*stride:]
			for i, j := 0, 0; i < len(row); i, j = i+cn, j+4 {
				dst[j], dst[j+1], dst[j+2], dst[j+3] = row[i+2], row[i+1], row[i], 0xff
				if cn == 4 {
					dst[j+3] = row[i+3]
				}
			}
		}
		return out, nil

	case img.Type16UC3, img.Type16UC4:
		cn := m.Channels()
		var pix []byte
		var stride int
		var out image.Image
		if cn == 3 {
			d := image.NewRGBA64(rect)
			pix, stride, out = d.Pix, d.Stride, d
		} else {
			d := image.NewNRGBA64(rect)
			pix, stride, out = d.Pix, d.Stride, d
		}
		for y := 0; y < m.Rows(); y++ {
			row, _ := img.RowAs[uint16](m, y)
			dst := pix[y*stride:]
			for i, j := 0, 0; i < len(row); i, j = i+cn, j+8 {
				be.PutUint16(dst[j:], row[i+2])
				be.PutUint16(dst[j+2:], row[i+1])
				be.PutUint16(dst[j+4:], row[i])
				alpha := uint16(0xffff)
				if cn == 4 {
					alpha = row[i+3]
				}
				be.PutUint16(dst[j+6:], alpha)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("imgio: ToImage: %s has no image.Image equivalent: %w", m.Type(), ErrUnsupported)
}
