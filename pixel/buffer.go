// Package pixel provides the single-channel sample grid shared by every stage
// of the edge detector.
//
// A Buffer is owned by exactly one component at a time: the coordinator while
// the image is whole, a single worker while it holds a partial band. Ownership
// moves by returning the buffer, never by sharing it.
package pixel

import (
	"bytes"
	"errors"
	"fmt"
)

// Common errors for buffer operations.
var (
	// ErrShapeMismatch is returned when buffers or sample sequences that are
	// expected to align in size do not.
	ErrShapeMismatch = errors.New("pixel: shape mismatch")

	// ErrOutOfRange is returned when an index lies outside the buffer.
	ErrOutOfRange = errors.New("pixel: index out of range")
)

// Buffer is a rows×columns grid of 8-bit intensity samples stored row-major.
// Sample (r, c) lives at linear index r*columns+c.
//
// The shape is fixed at creation. Sample values may be mutated by the owner.
// Buffer is not safe for concurrent mutation.
type Buffer struct {
	rows    int
	columns int
	samples []byte
}

// New creates a zero-filled buffer with the given shape.
// A buffer with zero rows is valid and represents an empty band.
// New panics if rows is negative or columns is not positive.
func New(rows, columns int) *Buffer {
	if rows < 0 || columns <= 0 {
		panic(fmt.Sprintf("pixel: invalid shape %dx%d", rows, columns))
	}
	return &Buffer{
		rows:    rows,
		columns: columns,
		samples: make([]byte, rows*columns),
	}
}

// FromSamples creates a buffer holding a copy of samples.
// It returns ErrShapeMismatch unless len(samples) == rows*columns.
func FromSamples(rows, columns int, samples []byte) (*Buffer, error) {
	if rows < 0 || columns <= 0 || len(samples) != rows*columns {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrShapeMismatch, len(samples), rows, columns)
	}
	b := New(rows, columns)
	copy(b.samples, samples)
	return b, nil
}

// Rows returns the number of rows.
func (b *Buffer) Rows() int {
	return b.rows
}

// Columns returns the number of columns.
func (b *Buffer) Columns() int {
	return b.columns
}

// Len returns rows*columns.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Index returns the linear index of (r, c), or -1 if it is outside the grid.
func (b *Buffer) Index(r, c int) int {
	if r < 0 || r >= b.rows || c < 0 || c >= b.columns {
		return -1
	}
	return r*b.columns + c
}

// At returns the sample at linear index i.
func (b *Buffer) At(i int) (byte, error) {
	if i < 0 || i >= len(b.samples) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(b.samples))
	}
	return b.samples[i], nil
}

// Set stores v at linear index i.
func (b *Buffer) Set(i int, v byte) error {
	if i < 0 || i >= len(b.samples) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(b.samples))
	}
	b.samples[i] = v
	return nil
}

// Row returns the samples of row r, backed by the buffer.
// Returns nil if r is out of bounds.
func (b *Buffer) Row(r int) []byte {
	if r < 0 || r >= b.rows {
		return nil
	}
	start := r * b.columns
	return b.samples[start : start+b.columns : start+b.columns]
}

// Samples returns a copy of all samples in row-major order.
func (b *Buffer) Samples() []byte {
	return bytes.Clone(b.samples)
}

// Data returns the backing sample slice for bulk transfer.
// Writes through the returned slice modify the buffer.
func (b *Buffer) Data() []byte {
	return b.samples
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		rows:    b.rows,
		columns: b.columns,
		samples: bytes.Clone(b.samples),
	}
}

// Fill sets every sample to v.
func (b *Buffer) Fill(v byte) {
	for i := range b.samples {
		b.samples[i] = v
	}
}

// SameShape reports whether b and o have identical rows and columns.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.rows == o.rows && b.columns == o.columns
}

// Equal reports whether b and o have the same shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.SameShape(o) && bytes.Equal(b.samples, o.samples)
}

// String returns a short description such as "pixel.Buffer(4x3)".
func (b *Buffer) String() string {
	return fmt.Sprintf("pixel.Buffer(%dx%d)", b.rows, b.columns)
}
