package imgio

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajroetker/go-imglib/img"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/tiff"
)

// pattern16 fills every channel with a distinct 16-bit value; alpha
// channels stay below 0xffff so the result is not opaque.
func pattern16(t *testing.T, rows, cols int, typ img.PixelType) *img.Mat {
	t.Helper()
	m, err := img.New(rows, cols, typ)
	if err != nil {
		t.Fatal(err)
	}
	cn := m.Channels()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for k := 0; k < cn; k++ {
				_ = m.Set(r, c, k, float64((r*4099+c*257+k*8191)%65000))
			}
		}
	}
	return m
}

func TestTIFF_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  func(t *testing.T) *img.Mat
	}{
		{"8UC1", func(t *testing.T) *img.Mat { return pattern(t, 5, 7, img.Type8UC1) }},
		{"8UC4", func(t *testing.T) *img.Mat { return pattern(t, 4, 3, img.Type8UC4) }},
		{"16UC1", func(t *testing.T) *img.Mat { return pattern16(t, 6, 9, img.Type16UC1) }},
		{"16UC4", func(t *testing.T) *img.Mat { return pattern16(t, 3, 3, img.Type16UC4) }},
		{"8UC3", func(t *testing.T) *img.Mat { return pattern(t, 3, 5, img.Type8UC3) }},
		{"16UC3", func(t *testing.T) *img.Mat { return pattern16(t, 2, 4, img.Type16UC3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src(t)
			defer src.Release()

			path := filepath.Join(t.TempDir(), "rt.tiff")
			var h TIFFHandler
			if err := h.Write(path, src); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := h.Read(path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			defer got.Release()

			if got.Type() != src.Type() || got.Rows() != src.Rows() || got.Cols() != src.Cols() {
				t.Fatalf("Read: got %s, want %s", got, src)
			}
			if diff := cmp.Diff(packed(t, src), packed(t, got)); diff != "" {
				t.Errorf("pixels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTIFF_RejectsCompressed(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	path := filepath.Join(t.TempDir(), "deflate.tif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(f, src, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := (TIFFHandler{}).Read(path); !errors.Is(err, ErrFormat) {
		t.Errorf("Read compressed: got %v, want ErrFormat", err)
	}
	r := NewDefaultRegistry()
	if m := r.Read(path); !m.Empty() {
		t.Errorf("Registry.Read compressed: got %s", m)
	}
}

func TestTIFFCompression(t *testing.T) {
	// Big-endian header, one IFD entry: Compression (259), SHORT, 1, value 5.
	mm := []byte{
		'M', 'M', 0, 42, 0, 0, 0, 8,
		0, 1,
		0x01, 0x03, 0, 3, 0, 0, 0, 1, 0, 5, 0, 0,
		0, 0, 0, 0,
	}
	if got, err := tiffCompression(mm); err != nil || got != 5 {
		t.Errorf("big-endian: got %d, %v, want 5", got, err)
	}

	// No Compression entry means none.
	ii := []byte{
		'I', 'I', 42, 0, 8, 0, 0, 0,
		1, 0,
		0x00, 0x01, 3, 0, 1, 0, 0, 0, 4, 0, 0, 0, // ImageWidth
		0, 0, 0, 0,
	}
	if got, err := tiffCompression(ii); err != nil || got != 1 {
		t.Errorf("absent tag: got %d, %v, want 1", got, err)
	}

	for name, data := range map[string][]byte{
		"short":     {'I', 'I'},
		"signature": []byte("PK\x03\x04zzzz"),
		"bad IFD":   {'I', 'I', 42, 0, 0xff, 0xff, 0, 0},
		"truncated": {'I', 'I', 42, 0, 8, 0, 0, 0, 3, 0, 1, 2},
	} {
		if _, err := tiffCompression(data); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: got %v, want ErrFormat", name, err)
		}
	}
}

func TestTIFF_WriteRejects(t *testing.T) {
	m, err := img.New(2, 2, img.Type32FC1)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()
	if err := (TIFFHandler{}).Write(filepath.Join(t.TempDir(), "f.tif"), m); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Write 32FC1: got %v, want ErrUnsupported", err)
	}
}
