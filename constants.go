package cwt

// Configuration defaults
const (
	// DefaultWidth is the default wavelet width β, giving about three
	// effective carrier cycles per kernel.
	DefaultWidth = 0.5

	// DefaultSizeFactor keeps the kernel at the plain 3σ truncation.
	DefaultSizeFactor = 1.0

	// DefaultStride emits output at the full input rate.
	DefaultStride = 1
)

// Configuration limits
const (
	// minScales is the smallest scale count for which geometric spacing
	// is defined.
	minScales = 2

	// minSizeFactor forbids truncating tighter than the 3σ heuristic.
	minSizeFactor = 1.0
)
