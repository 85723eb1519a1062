package image

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/sobel/pixel"
)

// FromImage converts img to a single-channel buffer with one row per image
// row. *image.Gray sources are copied row by row; any other color model goes
// through the standard luma conversion.
func FromImage(img image.Image) (*pixel.Buffer, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	}
	return FromGray(gray), nil
}

// FromGray copies g into a new buffer, dropping any row padding.
func FromGray(g *image.Gray) *pixel.Buffer {
	bounds := g.Bounds()
	buf := pixel.New(bounds.Dy(), bounds.Dx())
	for y := 0; y < bounds.Dy(); y++ {
		start := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(buf.Row(y), g.Pix[start:start+bounds.Dx()])
	}
	return buf
}

// ToGray copies buf into a new *image.Gray anchored at the origin.
func ToGray(buf *pixel.Buffer) (*image.Gray, error) {
	if buf.Len() == 0 {
		return nil, fmt.Errorf("image: %v: %w", buf, ErrEmptyImage)
	}
	g := image.NewGray(image.Rect(0, 0, buf.Columns(), buf.Rows()))
	copy(g.Pix, buf.Data())
	return g, nil
}
