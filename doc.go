// Package cwt computes continuous wavelet transform scalograms using
// complex Morlet wavelets in pure Go.
//
// The transform correlates a signal against a bank of geometrically spaced,
// scaled complex Morlet kernels, producing a time-frequency representation
// (scalogram) whose frequency resolution is constant per octave. The wavelet
// width is exposed as a mutable parameter so the time/frequency trade-off
// can be tuned, or optimized externally, between transforms.
//
// # Features
//
//   - Complex Morlet wavelet bank with unit-gain normalization per scale
//   - Geometric scale spacing covering a configurable frequency range
//   - Complex, magnitude, or phase output
//   - Batched multi-channel input in channels-last or channels-first layout
//   - Temporal striding and border cropping
//   - Trainable width parameter with a thread-safe handle
//   - float64 and float32 processing paths
//   - SIMD-accelerated direct convolution via github.com/tphakala/simd,
//     with an FFT overlap-save path for long kernels
//   - Optional parallel per-channel processing
//
// # Quick Start
//
// For a one-shot magnitude scalogram of a mono signal:
//
//	scalogram, err := cwt.MagnitudeScalogram(samples, 100, 1000, 32, 16000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For repeated transforms with explicit configuration:
//
//	config := cwt.DefaultConfig(100, 1000, 32, 16000)
//	config.OutputMode = cwt.OutputComplex
//	transform, err := cwt.New(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	scalogram, err := transform.ApplyMono(samples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Width Parameter
//
// The wavelet width β controls the number of effective carrier cycles
// inside the kernel (roughly sqrt(18·β)). Larger widths resolve frequency
// better; smaller widths resolve time better. [Transform.Width] returns a
// handle whose value can be read and replaced between transforms:
//
//	w := transform.Width()
//	w.SetValue(cwt.WidthForCycles(6))
//
// The kernel support is sized once, from the configured width, and does not
// change when the parameter is later updated. Widths grown far past the
// initial value are therefore truncated harder than the sizing heuristic
// intends; use [Config.SizeFactor] to reserve headroom when the width is
// expected to grow.
//
// # Output Shape
//
// With channels-last input [batch, time, channels] the scalogram is
// [batch, time_out, n_scales, channels_out]; with channels-first input
// [batch, channels, time] it is [batch, channels_out, time_out, n_scales].
// Complex output doubles the channel axis (real responses first, then
// imaginary); magnitude and phase keep the input channel count.
//
// # Thread Safety
//
// A [Transform] is safe for concurrent Apply calls. The width parameter
// handle is internally locked; a SetValue racing an Apply is safe but the
// Apply observes either the old or the new width.
package cwt
