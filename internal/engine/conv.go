package engine

import (
	"github.com/tphakala/go-cwt/internal/simdops"
)

// Float is the type constraint for supported sample types.
type Float = simdops.Float

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// samePadding computes SAME-padding geometry for a strided sliding dot
// product: the output length is ceil(timeIn/stride) and the total padding
// is split with the smaller half on the left, matching the convention of
// common tensor frameworks.
func samePadding(timeIn, kernelLen, stride int) (timeConv, padLeft, padTotal int) {
	timeConv = ceilDiv(timeIn, stride)
	padTotal = (timeConv-1)*stride + kernelLen - timeIn
	if padTotal < 0 {
		padTotal = 0
	}
	padLeft = padTotal / 2
	return timeConv, padLeft, padTotal
}

// bankApplier holds the per-Apply state for running one filter bank over
// channel signals: taps converted to the working precision, the negated
// imaginary taps, and (for long kernels) the shared frequency-domain bank.
// It is immutable after construction and safe for concurrent respond calls;
// each call allocates its own scratch.
type bankApplier[F Float] struct {
	ops       *simdops.Ops[F]
	kernelLen int

	// Direct-path taps in working precision. imagNeg carries the sign
	// flip applied before convolution: the reference formulation runs its
	// correlation primitive against the negated imaginary filter so the
	// response matches the exp(+j·2π·t) carrier used in bank synthesis.
	// Our sliding dot product is also correlation (no kernel flip), so
	// the negation carries over verbatim. A reimplementation on a
	// flipped-kernel convolution primitive would need to re-derive it.
	real    [][]F
	imagNeg [][]F

	// FFT path state, only set when the kernel is long enough to benefit.
	// Rows 0..n-1 are the real kernels, rows n..2n-1 the negated imaginary.
	fft *fftBank
}

// newBankApplier converts the float64 bank taps into working precision and
// precomputes the FFT image of the bank for long kernels.
func newBankApplier[F Float](realTaps, imagTaps [][]float64) *bankApplier[F] {
	n := len(realTaps)
	kernelLen := len(realTaps[0])

	a := &bankApplier[F]{
		ops:       simdops.For[F](),
		kernelLen: kernelLen,
		real:      make([][]F, n),
		imagNeg:   make([][]F, n),
	}

	imagNeg64 := make([][]float64, n)
	for i := range n {
		re := make([]F, kernelLen)
		im := make([]F, kernelLen)
		for k := range kernelLen {
			re[k] = F(realTaps[i][k])
			im[k] = F(imagTaps[i][k])
		}
		// Sign flip is exact in IEEE floats, so both precisions and the
		// float64 FFT copy below stay consistent.
		a.ops.Scale(im, im, -1)
		a.real[i] = re
		a.imagNeg[i] = im

		neg := make([]float64, kernelLen)
		for k := range kernelLen {
			neg[k] = -imagTaps[i][k]
		}
		imagNeg64[i] = neg
	}

	if kernelLen >= minKernelForFFT {
		a.fft = newFFTBank(append(append([][]float64{}, realTaps...), imagNeg64...))
	}

	return a
}

// respond computes the full-rate valid sliding dot product of one padded
// channel signal against every bank column. Returned rows have length
// len(padded) - kernelLen + 1, one per scale, for the real and (negated)
// imaginary parts respectively.
func (a *bankApplier[F]) respond(padded []F) (re, im [][]F) {
	n := len(a.real)
	fullLen := len(padded) - a.kernelLen + 1

	re = make([][]F, n)
	im = make([][]F, n)
	for i := range n {
		re[i] = make([]F, fullLen)
		im[i] = make([]F, fullLen)
	}

	if a.fft != nil {
		a.respondFFT(re, im, padded, fullLen)
		return re, im
	}

	a.ops.ConvolveValidMulti(re, padded, a.real)
	a.ops.ConvolveValidMulti(im, padded, a.imagNeg)
	return re, im
}

// respondFFT runs the overlap-save path. gonum's FFT works in float64, so
// float32 signals round-trip through a float64 scratch; the FFT path only
// triggers for long kernels where the O(N log N) win dominates the copies.
func (a *bankApplier[F]) respondFFT(re, im [][]F, padded []F, fullLen int) {
	n := len(a.real)

	signal64 := make([]float64, len(padded))
	for i, v := range padded {
		signal64[i] = float64(v)
	}

	dsts := make([][]float64, 2*n)
	for i := range dsts {
		dsts[i] = make([]float64, fullLen)
	}

	a.fft.convolver().Convolve(dsts, signal64)

	for i := range n {
		for k := range fullLen {
			re[i][k] = F(dsts[i][k])
			im[i][k] = F(dsts[n+i][k])
		}
	}
}
