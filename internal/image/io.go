// Package image decodes image files into single-channel pixel buffers and
// encodes pixel buffers as grayscale PNG.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/sobel/pixel"
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrEmptyImage is returned when a decoded image has no pixels.
	ErrEmptyImage = errors.New("image: empty image")
)

// Load reads the image file at path and converts it to a single channel.
// Supported containers: PNG, JPEG, GIF, BMP, TIFF, WebP.
func Load(path string) (*pixel.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadFromBytes decodes an in-memory image, auto-detecting the format.
func LoadFromBytes(data []byte) (*pixel.Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format, and converts it
// to a single channel.
func Decode(r io.Reader) (*pixel.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromImage(img)
}

// Save writes buf to path as a grayscale PNG.
//
// The image is encoded into a temporary file in the same directory and
// renamed into place, so a failed save never leaves a truncated file at path.
func Save(path string, buf *pixel.Buffer) error {
	path = filepath.Clean(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	tmp := f.Name()

	if err := EncodePNG(f, buf); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image: close file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image: rename: %w", err)
	}
	return nil
}

// EncodePNG writes buf to w as a grayscale PNG.
func EncodePNG(w io.Writer, buf *pixel.Buffer) error {
	gray, err := ToGray(buf)
	if err != nil {
		return err
	}
	if err := png.Encode(w, gray); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeToBytes encodes buf as a grayscale PNG in memory.
func EncodeToBytes(buf *pixel.Buffer) ([]byte, error) {
	var b bytes.Buffer
	if err := EncodePNG(&b, buf); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
