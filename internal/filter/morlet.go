package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-cwt/internal/mathutil"
)

// Bank holds the real and imaginary taps of a complex wavelet filter bank.
// Logical shape is [kernel_size, n_scales]; storage is scale-major so each
// scale's kernel is a contiguous slice ready for convolution.
//
// For every scale column the real part is an even function of the tap
// index about the center and the imaginary part is odd.
type Bank struct {
	// Real and Imag are indexed [scale][tap].
	Real [][]float64
	Imag [][]float64

	oneSide int
}

// KernelSize returns the number of taps per kernel (always odd).
func (b Bank) KernelSize() int {
	return 2*b.oneSide + 1
}

// NScales returns the number of scale columns in the bank.
func (b Bank) NScales() int {
	return len(b.Real)
}

// MorletParams holds the synthesis parameters of a complex Morlet bank.
//
// The mother wavelet is
//
//	Ψ(t) = (1/Z) · exp(j·2π·t) · exp(-t²/β)
//
// where β is the wavelet width and Z = fs·sqrt(π·β)/2 normalizes each
// scale's filter to approximately unit gain, so relative magnitudes across
// scales are comparable. Scaled wavelets are Ψ_s(t) = Ψ(t/s)/s.
type MorletParams struct {
	// Width is the current wavelet width β (> 0). Larger widths give
	// better frequency resolution at the cost of time resolution.
	Width float64

	// InitialWidth is the width used for kernel-support sizing only.
	// The support is fixed at construction time: if Width is later
	// trained past InitialWidth, effective truncation becomes tighter
	// than the 3σ heuristic intends. This is a documented limitation of
	// the fixed-support design, not something the builder compensates for.
	InitialWidth float64

	// FS is the sampling frequency in Hz (> 0).
	FS float64

	// SizeFactor relaxes kernel truncation beyond the 3σ heuristic (≥ 1).
	SizeFactor float64
}

// Validate checks if synthesis parameters are valid.
func (p MorletParams) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("wavelet width must be positive, got %g", p.Width)
	}
	if p.InitialWidth <= 0 {
		return fmt.Errorf("initial wavelet width must be positive, got %g", p.InitialWidth)
	}
	if p.FS <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %g", p.FS)
	}
	if p.SizeFactor < 1 {
		return fmt.Errorf("size factor must be >= 1, got %g", p.SizeFactor)
	}
	return nil
}

// BuildMorletBank synthesizes the complex Morlet filter bank for the given
// scale set. It is a pure function of its inputs: identical arguments
// produce bit-identical banks, and no state is retained between calls.
// Callers that let an optimizer mutate the width are expected to rebuild
// the bank on every forward pass.
func BuildMorletBank(set ScaleSet, p MorletParams) (Bank, error) {
	if err := p.Validate(); err != nil {
		return Bank{}, err
	}
	if set.NScales() == 0 {
		return Bank{}, fmt.Errorf("empty scale set")
	}

	// Support is sized from the initial width so the kernel length does
	// not change when the width parameter is trained.
	oneSide, kernelSize := mathutil.KernelSupport(set.MaxScale(), p.InitialWidth, p.FS, p.SizeFactor)

	bank := Bank{
		Real:    make([][]float64, set.NScales()),
		Imag:    make([][]float64, set.NScales()),
		oneSide: oneSide,
	}

	for si, scale := range set.Scales {
		norm := math.Sqrt(math.Pi*p.Width) * scale * p.FS / 2.0

		real := make([]float64, kernelSize)
		imag := make([]float64, kernelSize)
		for k := range kernelSize {
			t := float64(k-oneSide) / p.FS
			scaledT := t / scale
			base := math.Exp(-(scaledT*scaledT)/p.Width) / norm
			real[k] = base * math.Cos(2*math.Pi*scaledT)
			imag[k] = base * math.Sin(2*math.Pi*scaledT)
		}

		bank.Real[si] = real
		bank.Imag[si] = imag
	}

	return bank, nil
}
