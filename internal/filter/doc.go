// Package filter implements the 3×3 convolution and gradient-magnitude
// combination used by the Sobel edge detector.
//
// Both operations work on pixel.Buffer values and allocate a fresh output
// buffer; inputs are never modified. Kernel footprint cells that fall outside
// the image contribute nothing (zero padding), and every result is saturated
// to [0, 255].
package filter
