package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

var (
	// ErrUnsupportedFormat means imported bytes are not a PNG or JPEG image.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge means an imported image has a side over MaxSide.
	ErrTooLarge = errors.New("image too large")
)

// IOError is a failed export or import. The canvas is left as it was.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExportTo writes the buffer to path, as JPEG for .jpg/.jpeg and PNG
// otherwise. An empty path means the save was cancelled and does nothing.
func (c *Canvas) ExportTo(path string) error {
	if path == "" {
		return nil
	}

	out, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "export", Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, c.img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(out, c.img)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &IOError{Op: "export", Path: path, Err: err}
	}

	return nil
}

// EncodePNG writes the buffer as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// ImportFrom decodes a PNG or JPEG image and replaces the buffer with it,
// scaled to the canvas's current size. Empty data means the open was
// cancelled and does nothing.
func (c *Canvas) ImportFrom(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return &IOError{Op: "import", Err: err}
	}

	var decodeConfig func(io.Reader) (image.Config, error)
	var decode func(io.Reader) (image.Image, error)
	switch kind {
	case matchers.TypePng:
		decodeConfig, decode = png.DecodeConfig, png.Decode
	case matchers.TypeJpeg:
		decodeConfig, decode = jpeg.DecodeConfig, jpeg.Decode
	default:
		return &IOError{Op: "import", Err: ErrUnsupportedFormat}
	}

	// refuse huge headers before the decoder allocates for them
	cfg, err := decodeConfig(bytes.NewReader(data))
	if err != nil {
		return &IOError{Op: "import", Err: fmt.Errorf("decode %s: %w", kind.Extension, err)}
	}
	if !usableSize(cfg.Width, cfg.Height) {
		return &IOError{Op: "import", Err: fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)}
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return &IOError{Op: "import", Err: fmt.Errorf("decode %s: %w", kind.Extension, err)}
	}

	size := c.Size()
	c.img = scaled(img, size.X, size.Y)
	return nil
}
