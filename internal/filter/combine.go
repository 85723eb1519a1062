package filter

import (
	"fmt"
	"math"

	"github.com/gogpu/sobel/pixel"
)

// Combine merges two directional responses into a gradient magnitude image.
// Each output sample is hypot(gx[i], gy[i]) saturated at 255 and truncated
// to a byte.
//
// gx and gy must both have shape (rows, columns); otherwise Combine returns
// pixel.ErrShapeMismatch.
func Combine(gx, gy *pixel.Buffer, rows, columns int) (*pixel.Buffer, error) {
	if !gx.SameShape(gy) {
		return nil, fmt.Errorf("filter: combine %v with %v: %w", gx, gy, pixel.ErrShapeMismatch)
	}
	if gx.Rows() != rows || gx.Columns() != columns {
		return nil, fmt.Errorf("filter: combine %v as %dx%d: %w", gx, rows, columns, pixel.ErrShapeMismatch)
	}

	out := pixel.New(rows, columns)
	dst := out.Data()
	x, y := gx.Data(), gy.Data()

	for i := range dst {
		dst[i] = clampFloat(math.Hypot(float64(x[i]), float64(y[i])))
	}

	return out, nil
}

// clampFloat saturates v to [0, 255] and truncates it.
func clampFloat(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
