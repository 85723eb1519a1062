package filter

// KernelSize is the side length of every kernel.
const KernelSize = 3

// Center cell of a kernel, 0-indexed.
const (
	kRowCenter    = 1
	kColumnCenter = 1
)

// Kernel is a 3×3 integer convolution kernel stored row-major.
type Kernel [KernelSize * KernelSize]int

// Named kernels.
var (
	// SobelX responds to horizontal intensity change.
	SobelX = Kernel{-1, 0, 1, -2, 0, 2, -1, 0, 1}

	// SobelY responds to vertical intensity change.
	SobelY = Kernel{1, 2, 1, 0, 0, 0, -1, -2, -1}

	// Identity reproduces its input.
	Identity = Kernel{0, 0, 0, 0, 1, 0, 0, 0, 0}
)

// At returns the weight at kernel row ki and column kj.
func (k Kernel) At(ki, kj int) int {
	return k[ki*KernelSize+kj]
}

// Sum returns the sum of all weights.
func (k Kernel) Sum() int {
	s := 0
	for _, w := range k {
		s += w
	}
	return s
}
