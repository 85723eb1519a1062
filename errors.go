package sobel

import (
	"github.com/gogpu/sobel/partition"
	"github.com/gogpu/sobel/pixel"
)

// Errors surfaced by the edge detector. None of them is transient: each one
// points at a defect in the caller's input or topology and aborts the run.
var (
	// ErrShapeMismatch reports buffers whose shapes were expected to agree.
	ErrShapeMismatch = pixel.ErrShapeMismatch

	// ErrOutOfRange reports an index or row range outside a buffer.
	ErrOutOfRange = pixel.ErrOutOfRange

	// ErrInvalidTopology reports a partition request that cannot be satisfied,
	// such as more workers than rows.
	ErrInvalidTopology = partition.ErrInvalidTopology
)
