// Package sobel detects edges in a grayscale image with the Sobel operator,
// splitting the work across a group of workers.
//
// # Overview
//
// Each worker owns a contiguous horizontal band of the image. It convolves
// the band with the horizontal and vertical Sobel kernels, merges the two
// responses into a gradient magnitude, and sends the band to a coordinator,
// which places every band at its offset in the output. Partitioning never
// changes the numeric result: the assembled image is byte-identical to a
// single-pass Detect.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/sobel"
//	    "github.com/gogpu/sobel/pixel"
//	)
//
//	img, _ := pixel.FromSamples(rows, columns, samples)
//
//	// Single pass.
//	edges, err := sobel.Detect(img)
//
//	// Four in-process workers, remainder rows on the last one.
//	edges, err = sobel.RunLocal(ctx, img, 4)
//
// # Topology
//
// With N workers and R rows every worker gets R/N rows and the coordinator
// additionally gets R%N. Bands are laid out in rank order from row 0. The
// coordinator defaults to the last rank; see package partition.
//
// # Transports
//
// Run is written against transport.Transport. Package transport/local
// provides an in-process group; other message-passing layers can implement
// the same two collective operations.
//
// # Architecture
//
// The module is organized into:
//   - Public API: Detect, Process, Task, Run, RunLocal, Config
//   - pixel: the single-channel sample buffer
//   - partition: row ranges and gather tables
//   - transport: broadcast and gather between workers
//   - internal/filter: 3×3 convolution and gradient combination
//   - internal/parallel: the worker pool that executes a band
//   - internal/image: file decode and PNG encode
//
// # Logging
//
// The package is silent by default. Call SetLogger to receive run lifecycle
// and per-band diagnostics through log/slog.
package sobel
