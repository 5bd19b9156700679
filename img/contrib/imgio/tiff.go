package imgio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ajroetker/go-imglib/img"
	"golang.org/x/image/tiff"
)

const (
	tiffTagCompression = 259
	tiffTypeShort      = 3
	tiffTypeLong       = 4
	tiffNoCompression  = 1
)

// TIFFHandler reads and writes uncompressed baseline TIFF through
// golang.org/x/image/tiff. Compressed files are rejected with ErrFormat
// before any pixel data is decoded.
type TIFFHandler struct{}

// Extensions implements Handler.
func (TIFFHandler) Extensions() []string { return []string{"tif", "tiff"} }

// Read implements Handler.
func (TIFFHandler) Read(path string) (*img.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scheme, err := tiffCompression(data)
	if err != nil {
		return nil, err
	}
	if scheme != tiffNoCompression {
		return nil, fmt.Errorf("tiff: compression scheme %d: %w", scheme, ErrFormat)
	}
	im, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tiff: %v: %w", err, ErrFormat)
	}
	m, err := FromImage(im)
	if err != nil {
		return nil, fmt.Errorf("tiff: %w", err)
	}
	return m, nil
}

// tiffCompression returns the Compression tag of the first IFD, or 1 when
// the tag is absent.
func tiffCompression(data []byte) (uint16, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("tiff: header truncated: %w", ErrFormat)
	}
	var order binary.ByteOrder
	switch string(data[:4]) {
	case "II*\x00":
		order = binary.LittleEndian
	case "MM\x00*":
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("tiff: signature %q: %w", data[:4], ErrFormat)
	}

	ifd := int64(order.Uint32(data[4:8]))
	if ifd+2 > int64(len(data)) {
		return 0, fmt.Errorf("tiff: IFD offset %d past end of file: %w", ifd, ErrFormat)
	}
	count := int64(order.Uint16(data[ifd:]))
	entries := data[ifd+2:]
	if int64(len(entries)) < 12*count {
		return 0, fmt.Errorf("tiff: IFD with %d entries truncated: %w", count, ErrFormat)
	}
	for i := int64(0); i < count; i++ {
		e := entries[12*i : 12*i+12]
		if order.Uint16(e[0:]) != tiffTagCompression {
			continue
		}
		switch order.Uint16(e[2:]) {
		case tiffTypeShort:
			return order.Uint16(e[8:]), nil
		case tiffTypeLong:
			return uint16(order.Uint32(e[8:])), nil
		default:
			return 0, fmt.Errorf("tiff: compression tag of type %d: %w", order.Uint16(e[2:]), ErrFormat)
		}
	}
	return tiffNoCompression, nil
}

// Write implements Handler. It accepts 8U and 16U Mats with 1, 3 or 4
// channels and writes them uncompressed.
func (TIFFHandler) Write(path string, m *img.Mat) (err error) {
	if m.Empty() {
		return fmt.Errorf("tiff: %w", img.ErrEmptyMat)
	}
	if d := m.Depth(); d != img.Depth8U && d != img.Depth16U {
		return fmt.Errorf("tiff: cannot store %s: %w", m.Type(), ErrUnsupported)
	}
	im, err := ToImage(m)
	if err != nil {
		return fmt.Errorf("tiff: %w", err)
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
	if err := tiff.Encode(w, im, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		return fmt.Errorf("tiff: %w", err)
	}
	return w.Flush()
}
