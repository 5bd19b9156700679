package imgio

import (
	"fmt"

	"github.com/ajroetker/go-imglib/img"
)

// stubHandler claims extensions for formats whose codecs are not built in,
// so that lookups succeed and failures say which format was asked for.
type stubHandler struct {
	format string
	exts   []string
}

// PNGHandler returns the placeholder handler for PNG files.
func PNGHandler() Handler { return stubHandler{format: "PNG", exts: []string{"png"}} }

// JPEGHandler returns the placeholder handler for JPEG files.
func JPEGHandler() Handler {
	return stubHandler{format: "JPEG", exts: []string{"jpg", "jpeg", "jpe"}}
}

func (s stubHandler) Extensions() []string { return s.exts }

func (s stubHandler) Read(path string) (*img.Mat, error) {
	return nil, fmt.Errorf("%s decoding is not available: %w", s.format, ErrUnsupported)
}

func (s stubHandler) Write(path string, m *img.Mat) error {
	return fmt.Errorf("%s encoding is not available: %w", s.format, ErrUnsupported)
}
