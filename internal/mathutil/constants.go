package mathutil

// Morlet truncation constants
const (
	// gaussianTruncationFactor is (3σ)² expressed in width units:
	// |t| ≤ 3σ = s·sqrt(4.5·β), so the factor under the root is 4.5.
	gaussianTruncationFactor = 4.5

	// cyclesWidthFactor relates effective cycles N to width β: N² = 18·β.
	cyclesWidthFactor = 18.0

	// oddKernelFactor doubles the one-sided support; +1 keeps the size odd.
	oddKernelFactor = 2
)
