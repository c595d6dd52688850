// Package mathutil provides closed-form design math for Morlet wavelet banks.
package mathutil

import (
	"math"
)

// TruncationSupport computes the one-sided time support |t| at which a
// Morlet wavelet of the given width is truncated, expressed in samples.
//
// The Gaussian envelope exp(-(t/s)²/β) is conventionally truncated at
// three standard deviations from the mean. With σ = s·sqrt(β/2) this gives
//
//	|t| ≤ 3σ = s·sqrt(4.5·β)
//
// which in sample units (multiplying by fs) is the returned value. The
// widest (last) scale dominates, so callers pass the maximum scale and the
// whole bank shares one support.
//
// Parameters:
//
//	maxScale: Largest scale in the bank (seconds)
//	width: Wavelet width β used for sizing
//	fs: Sampling frequency in Hz
//
// Returns:
//
//	One-sided support in samples (fractional; not yet floored)
func TruncationSupport(maxScale, width, fs float64) float64 {
	return maxScale * math.Sqrt(gaussianTruncationFactor*width) * fs
}

// KernelSupport derives the integer kernel geometry from the truncation
// support. sizeFactor ≥ 1 relaxes the 3σ heuristic, which is useful when
// the width is trainable and may grow past its sizing value.
//
// Returns:
//
//	oneSide: Taps on each side of the center tap
//	kernelSize: Total taps = 2*oneSide + 1 (always odd)
func KernelSupport(maxScale, width, fs, sizeFactor float64) (oneSide, kernelSize int) {
	oneSide = int(sizeFactor * TruncationSupport(maxScale, width, fs))
	kernelSize = oddKernelFactor*oneSide + 1
	return oneSide, kernelSize
}

// EffectiveCycles returns the approximate number of carrier cycles a
// Morlet wavelet of width β completes inside its 3σ truncation window.
//
// The truncation interval spans 2·sqrt(4.5·β) scale units and the carrier
// completes one cycle per scale unit, so
//
//	N ≈ sqrt(18·β)
//
// For example, β ≈ 0.9 yields about 4 effective cycles.
func EffectiveCycles(width float64) float64 {
	return math.Sqrt(cyclesWidthFactor * width)
}

// WidthForCycles is the inverse of EffectiveCycles: the width β required
// for N effective cycles.
//
//	β = N² / 18
//
// Larger widths trade time resolution for frequency resolution.
func WidthForCycles(cycles float64) float64 {
	return cycles * cycles / cyclesWidthFactor
}
