package engine

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT convolution constants.
const (
	// Minimum kernel length to use FFT convolution (below this, direct is faster).
	// Benchmarking shows crossover around 400-500 taps with gonum FFT.
	// Direct SIMD convolution is faster for typical filter lengths (128-256 taps).
	minKernelForFFT = 400

	// Default FFT block size (power of 2 for efficiency)
	defaultFFTBlockSize = 512

	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// Due to Hermitian symmetry, a real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)

// fftBank holds the shared, immutable frequency-domain image of a filter
// bank for overlap-save convolution. All kernels in a wavelet bank have
// the same length, so one FFT size and one signal transform per block
// serve every scale.
//
// Overlap-save method:
//  1. Process input in blocks of fftSize samples (with kernelLen-1 overlap)
//  2. Each block produces blockSize = fftSize - kernelLen + 1 valid output samples
//  3. The first kernelLen-1 output samples of each block are discarded (circular wrap)
type fftBank struct {
	fftSize   int
	blockSize int // Valid output samples per block = fftSize - kernelLen + 1
	kernelLen int
	fftLen    int     // Length of FFT output = fftSize/2 + 1
	scale     float64 // 1/fftSize for IFFT normalization (gonum doesn't normalize)

	// Precomputed kernels in frequency domain, one per bank row.
	kernelFFT [][]complex128
}

// newFFTBank transforms every kernel once. The kernels must share one
// length; the result is shared safely across goroutines.
func newFFTBank(kernels [][]float64) *fftBank {
	if len(kernels) == 0 || len(kernels[0]) == 0 {
		return nil
	}
	kernelLen := len(kernels[0])

	// Choose FFT size: next power of 2 >= 2*kernelLen for good efficiency
	fftSize := defaultFFTBlockSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)

	// Precompute kernel FFTs (zero-padded to fftSize).
	// IMPORTANT: Reverse each kernel so that circular convolution computes
	// the sliding dot product Σ x[n+k]·h[k] (same orientation as the
	// direct SIMD path), rather than flipped-kernel convolution.
	kernelFFT := make([][]complex128, len(kernels))
	kernelPadded := make([]float64, fftSize)
	for ki, kernel := range kernels {
		for i := range kernelPadded {
			kernelPadded[i] = 0
		}
		for i := range kernelLen {
			kernelPadded[i] = kernel[kernelLen-1-i]
		}
		kernelFFT[ki] = fft.Coefficients(nil, kernelPadded)
	}

	return &fftBank{
		fftSize:   fftSize,
		blockSize: fftSize - kernelLen + 1,
		kernelLen: kernelLen,
		fftLen:    fftSize/fftHermitianDivisor + 1,
		scale:     1.0 / float64(fftSize),
		kernelFFT: kernelFFT,
	}
}

// convolver returns per-goroutine working state for this bank. The FFT
// plan and scratch buffers are not safe for concurrent use, so each worker
// takes its own.
func (b *fftBank) convolver() *fftBankConvolver {
	return &fftBankConvolver{
		bank:        b,
		fft:         fourier.NewFFT(b.fftSize),
		signalBlock: make([]float64, b.fftSize),
		signalFFT:   make([]complex128, b.fftLen),
		productFFT:  make([]complex128, b.fftLen),
		ifftResult:  make([]float64, b.fftSize),
	}
}

// fftBankConvolver performs overlap-save convolution of one signal against
// every kernel of its bank. This is O(N log N) per kernel vs O(N×M) for
// direct convolution, beneficial for long kernels; the signal transform is
// additionally amortized across all kernels of a block.
type fftBankConvolver struct {
	bank *fftBank
	fft  *fourier.FFT

	// Working buffers (pre-allocated for zero allocation during processing)
	signalBlock []float64
	signalFFT   []complex128
	productFFT  []complex128
	ifftResult  []float64
}

// Convolve computes the valid sliding dot product of signal against every
// bank kernel. dsts must have one row per kernel, each with length
// >= len(signal) - kernelLen + 1.
func (c *fftBankConvolver) Convolve(dsts [][]float64, signal []float64) {
	b := c.bank
	signalLen := len(signal)
	outputLen := signalLen - b.kernelLen + 1
	if outputLen <= 0 {
		return
	}

	// Overlap-save with reversed kernels:
	// - Each FFT block produces blockSize valid output samples
	// - Block at outIdx reads signal[outIdx : outIdx + fftSize] (zero-padded at end)
	// - The first (kernelLen-1) IFFT outputs are circular-wrap artifacts and
	//   are skipped; valid samples start at that overlap offset.
	overlap := b.kernelLen - 1

	for outIdx := 0; outIdx < outputLen; {
		// Clear and fill the signal block
		for i := range c.signalBlock {
			c.signalBlock[i] = 0
		}
		copyLen := min(b.fftSize, signalLen-outIdx)
		if copyLen > 0 {
			copy(c.signalBlock, signal[outIdx:outIdx+copyLen])
		}

		// One signal FFT serves every kernel of this block
		c.signalFFT = c.fft.Coefficients(c.signalFFT, c.signalBlock)

		validSamples := min(b.blockSize, outputLen-outIdx)

		for ki, kfft := range b.kernelFFT {
			// Multiply in frequency domain using SIMD
			c128.Mul(c.productFFT, c.signalFFT, kfft)

			// IFFT and scale by 1/N (gonum's IFFT doesn't normalize)
			c.ifftResult = c.fft.Sequence(c.ifftResult, c.productFFT)
			f64.Scale(c.ifftResult, c.ifftResult, b.scale)

			copy(dsts[ki][outIdx:outIdx+validSamples], c.ifftResult[overlap:overlap+validSamples])
		}

		outIdx += validSamples
	}
}
