package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/sobel/pixel"
)

// Test helper functions shared across filter tests.

// uniformBuffer creates a buffer with every sample set to v.
func uniformBuffer(rows, columns int, v byte) *pixel.Buffer {
	b := pixel.New(rows, columns)
	b.Fill(v)
	return b
}

// patternBuffer creates a buffer with a deterministic, non-uniform pattern.
func patternBuffer(rows, columns int) *pixel.Buffer {
	b := pixel.New(rows, columns)
	data := b.Data()
	for i := range data {
		data[i] = byte((i*37 + i/columns*11) % 256)
	}
	return b
}

// mustBuffer builds a buffer from explicit samples.
func mustBuffer(t *testing.T, rows, columns int, samples ...byte) *pixel.Buffer {
	t.Helper()
	b, err := pixel.FromSamples(rows, columns, samples)
	require.NoError(t, err)
	return b
}
