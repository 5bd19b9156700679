package imgio

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajroetker/go-imglib/img"
	"github.com/google/go-cmp/cmp"
)

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"photo.BMP":          "bmp",
		"/tmp/a.b/c.Tiff":    "tiff",
		"archive.tar.gz":     "gz",
		".hidden":            "",
		"dir.d/noext":        "",
		"trailing.":          "",
		"":                   "",
		"C:/images/scan.TIF": "tif",
		"relative/../x.jpeg": "jpeg",
		"/abs/.config.png":   "png",
	}
	for path, want := range tests {
		if got := Extension(path); got != want {
			t.Errorf("Extension(%q): got %q, want %q", path, got, want)
		}
	}
}

type fakeHandler struct {
	exts []string
	mat  *img.Mat
	err  error
}

func (f fakeHandler) Extensions() []string          { return f.exts }
func (f fakeHandler) Read(string) (*img.Mat, error) { return f.mat, f.err }
func (f fakeHandler) Write(string, *img.Mat) error  { return f.err }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fakeHandler{exts: []string{"PNG", ".Apng", " png "}}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"apng", "png"}, r.Extensions()); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}

	// Conflicts are rejected as a whole.
	err := r.Register(fakeHandler{exts: []string{"webp", "png"}})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("conflicting Register: got %v, want ErrConflict", err)
	}
	if _, ok := r.Lookup("x.webp"); ok {
		t.Error("conflicting Register added a partial mapping")
	}

	if err := r.Register(nil); err != nil {
		t.Errorf("Register(nil): %v", err)
	}
	if err := r.Register(fakeHandler{}); err != nil {
		t.Errorf("Register without extensions: %v", err)
	}
	if len(r.Extensions()) != 2 {
		t.Errorf("Extensions after ignored registrations: %v", r.Extensions())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewDefaultRegistry()
	want := []string{"bmp", "dib", "jpe", "jpeg", "jpg", "png", "tif", "tiff"}
	if diff := cmp.Diff(want, r.Extensions()); diff != "" {
		t.Errorf("default Extensions mismatch (-want +got):\n%s", diff)
	}

	if h, ok := r.Lookup("IMAGE.BMP"); !ok {
		t.Error("Lookup(IMAGE.BMP) failed")
	} else if _, isBMP := h.(BMPHandler); !isBMP {
		t.Errorf("Lookup(IMAGE.BMP): got %T", h)
	}
	for _, p := range []string{"noext", ".bmp", "file.gif"} {
		if _, ok := r.Lookup(p); ok {
			t.Errorf("Lookup(%q) succeeded", p)
		}
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	img.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { img.SetLogger(nil) })
	return &buf
}

func TestRegistry_SoftFailures(t *testing.T) {
	logs := captureLog(t)
	r := NewDefaultRegistry()
	dir := t.TempDir()

	if m := r.Read(filepath.Join(dir, "image.xyz")); !m.Empty() {
		t.Errorf("Read without handler: got %s", m)
	}
	if m := r.Read(filepath.Join(dir, "missing.bmp")); !m.Empty() {
		t.Errorf("Read of missing file: got %s", m)
	}
	if m := r.Read(filepath.Join(dir, "photo.png")); !m.Empty() {
		t.Errorf("Read through PNG placeholder: got %s", m)
	}
	if !strings.Contains(logs.String(), "read failed") {
		t.Errorf("soft read failures were not logged:\n%s", logs)
	}

	if r.Write(filepath.Join(dir, "out.bmp"), &img.Mat{}) {
		t.Error("Write of empty Mat succeeded")
	}
	m, err := img.New(2, 2, img.Type8UC3)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()
	if r.Write(filepath.Join(dir, "out.jpg"), m) {
		t.Error("Write through JPEG placeholder succeeded")
	}
	if r.Write(filepath.Join(dir, "out"), m) {
		t.Error("Write without extension succeeded")
	}
	if !strings.Contains(logs.String(), "write failed") {
		t.Errorf("soft write failures were not logged:\n%s", logs)
	}
}

func TestRegistry_LoadSaveErrors(t *testing.T) {
	r := NewDefaultRegistry()
	dir := t.TempDir()

	if _, err := r.Load(filepath.Join(dir, "a.xyz")); !errors.Is(err, ErrNoHandler) {
		t.Errorf("Load without handler: got %v, want ErrNoHandler", err)
	}
	if _, err := r.Load(filepath.Join(dir, "a.png")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Load PNG: got %v, want ErrUnsupported", err)
	}
	if err := r.Save(filepath.Join(dir, "a.bmp"), nil); !errors.Is(err, img.ErrEmptyMat) {
		t.Errorf("Save nil Mat: got %v, want ErrEmptyMat", err)
	}

	empty := NewRegistry()
	if err := empty.Register(fakeHandler{exts: []string{"raw"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := empty.Load(filepath.Join(dir, "a.raw")); !errors.Is(err, ErrFormat) {
		t.Errorf("handler returning no pixels: got %v, want ErrFormat", err)
	}
}
