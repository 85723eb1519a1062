package filter

import (
	"fmt"

	"github.com/gogpu/sobel/pixel"
)

// Convolve applies k to rows [rowStart, rowEnd) of img and returns a new
// buffer of shape (rowEnd-rowStart, img.Columns()). Output row i-rowStart
// holds the response centered on input row i.
//
// The kernel reads rows outside the band when they exist in img, so a band
// convolved on its own is identical to the same rows of a full-image pass.
// Footprint cells outside the image are skipped.
//
// Returns pixel.ErrOutOfRange unless 0 <= rowStart <= rowEnd <= img.Rows().
func Convolve(img *pixel.Buffer, rowStart, rowEnd int, k Kernel) (*pixel.Buffer, error) {
	rows := img.Rows()
	if rowStart < 0 || rowStart > rowEnd || rowEnd > rows {
		return nil, fmt.Errorf("filter: convolve rows [%d, %d) of %d: %w", rowStart, rowEnd, rows, pixel.ErrOutOfRange)
	}

	columns := img.Columns()
	src := img.Data()
	out := pixel.New(rowEnd-rowStart, columns)
	dst := out.Data()

	for i := rowStart; i < rowEnd; i++ {
		for j := 0; j < columns; j++ {
			sum := 0
			for ki := 0; ki < KernelSize; ki++ {
				iCentered := i - kRowCenter + ki
				if iCentered < 0 || iCentered >= rows {
					continue
				}
				for kj := 0; kj < KernelSize; kj++ {
					jCentered := j - kColumnCenter + kj
					if jCentered < 0 || jCentered >= columns {
						continue
					}
					sum += int(src[iCentered*columns+jCentered]) * k.At(ki, kj)
				}
			}
			dst[(i-rowStart)*columns+j] = clampInt(sum)
		}
	}

	return out, nil
}

// clampInt saturates v to a byte.
func clampInt(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
