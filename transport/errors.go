package transport

import (
	"fmt"

	"github.com/gogpu/sobel/pixel"
)

func shapeError(format string, args ...any) error {
	return fmt.Errorf("transport: "+format+": %w", append(args, pixel.ErrShapeMismatch)...)
}
