package canvas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_emptyPathIsCancel(t *testing.T) {
	c := New(10, 10)
	assert.NoError(t, c.ExportTo(""))
}

func TestExport_badPath(t *testing.T) {
	c := New(10, 10)
	err := c.ExportTo(filepath.Join(t.TempDir(), "missing", "dir", "x.png"))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "export", ioErr.Op)
}

func TestRoundTrip_blank(t *testing.T) {
	c := New(64, 48)
	c.BeginStroke(image.Pt(0, 0))
	c.ExtendStroke(image.Pt(63, 47))
	c.Clear()

	path := filepath.Join(t.TempDir(), "blank.png")
	require.NoError(t, c.ExportTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	c.BeginStroke(image.Pt(0, 40))
	c.ExtendStroke(image.Pt(63, 40))
	require.NoError(t, c.ImportFrom(data))

	assert.Equal(t, image.Pt(64, 48), c.Size())
	assert.True(t, isBlank(c.img))
}

func TestRoundTrip_jpeg(t *testing.T) {
	c := New(32, 32)
	path := filepath.Join(t.TempDir(), "blank.jpg")
	require.NoError(t, c.ExportTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, c.ImportFrom(data))

	assert.True(t, near(Background, at(c, 16, 16)))
}

func TestImport_scalesToCanvas(t *testing.T) {
	src := New(10, 10)
	var buf bytes.Buffer
	require.NoError(t, src.EncodePNG(&buf))

	c := New(50, 20)
	require.NoError(t, c.ImportFrom(buf.Bytes()))
	assert.Equal(t, image.Pt(50, 20), c.Size())
	assert.True(t, near(Background, at(c, 25, 10)))
}

func TestImport_garbage(t *testing.T) {
	c := New(10, 10)
	c.BeginStroke(image.Pt(5, 5))
	c.ExtendStroke(image.Pt(5, 5))
	before := c.Image()

	err := c.ImportFrom([]byte("not an image at all"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, before.Pix, c.img.Pix)
}

func TestImport_truncatedPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(10, 10).EncodePNG(&buf))

	c := New(10, 10)
	err := c.ImportFrom(buf.Bytes()[:40])
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "import", ioErr.Op)
}

func TestImport_emptyIsCancel(t *testing.T) {
	c := New(10, 10)
	assert.NoError(t, c.ImportFrom(nil))
}

// withHeaderSize rewrites the IHDR size of an encoded PNG.
func withHeaderSize(t *testing.T, data []byte, width, height uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))

	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], width)
	binary.BigEndian.PutUint32(out[20:24], height)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestImport_tooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(1, 1).EncodePNG(&buf))
	huge := withHeaderSize(t, buf.Bytes(), 1000000, 1000000)

	c := New(10, 10)
	c.BeginStroke(image.Pt(5, 5))
	c.ExtendStroke(image.Pt(5, 5))
	before := c.Image()

	err := c.ImportFrom(huge)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "import", ioErr.Op)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, before.Pix, c.img.Pix)
}
