package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Test geometry
	testTimeLen  = 128
	testNScales  = 4
	testChannels = 1

	// Test tolerances
	engineTolerance = 1e-12
	fftTolerance    = 1e-9
)

// identityBank returns a bank whose real rows are unit impulses at the
// center tap and whose imaginary rows are zero. Correlating with it under
// SAME padding reproduces the input at every scale.
func identityBank(nScales, kernelLen int) (realTaps, imagTaps [][]float64) {
	realTaps = make([][]float64, nScales)
	imagTaps = make([][]float64, nScales)
	for s := range nScales {
		realTaps[s] = make([]float64, kernelLen)
		imagTaps[s] = make([]float64, kernelLen)
		realTaps[s][kernelLen/2] = 1.0
	}
	return realTaps, imagTaps
}

// randomBank returns reproducible random taps.
func randomBank(rng *rand.Rand, nScales, kernelLen int) (realTaps, imagTaps [][]float64) {
	realTaps = make([][]float64, nScales)
	imagTaps = make([][]float64, nScales)
	for s := range nScales {
		realTaps[s] = make([]float64, kernelLen)
		imagTaps[s] = make([]float64, kernelLen)
		for k := range kernelLen {
			realTaps[s][k] = rng.NormFloat64()
			imagTaps[s][k] = rng.NormFloat64()
		}
	}
	return realTaps, imagTaps
}

// monoSignal wraps samples as a channels-last batch of one.
func monoSignal(samples []float64) [][][]float64 {
	sig := make([][][]float64, 1)
	sig[0] = make([][]float64, len(samples))
	for t, v := range samples {
		sig[0][t] = []float64{v}
	}
	return sig
}

// naiveCorrelate computes the valid sliding dot product directly.
func naiveCorrelate(signal, kernel []float64) []float64 {
	out := make([]float64, len(signal)-len(kernel)+1)
	for i := range out {
		var acc float64
		for k, h := range kernel {
			acc += signal[i+k] * h
		}
		out[i] = acc
	}
	return out
}

// TestSamePadding verifies SAME geometry for common stride/kernel combinations.
func TestSamePadding(t *testing.T) {
	tests := []struct {
		name                       string
		timeIn, kernelLen, stride  int
		wantOut, wantLeft, wantTot int
	}{
		{"unit_stride", 128, 7, 1, 128, 3, 6},
		{"stride_two", 128, 7, 2, 64, 2, 5},
		{"stride_two_odd_len", 127, 7, 2, 64, 3, 6},
		{"kernel_longer_than_input", 4, 9, 1, 4, 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, left, total := samePadding(tt.timeIn, tt.kernelLen, tt.stride)
			assert.Equal(t, tt.wantOut, out, "output length")
			assert.Equal(t, tt.wantLeft, left, "left padding")
			assert.Equal(t, tt.wantTot, total, "total padding")
		})
	}
}

// TestNewTransformer_Validation tests eager configuration validation.
func TestNewTransformer_Validation(t *testing.T) {
	tests := []struct {
		name       string
		nScales    int
		borderCrop int
		stride     int
		mode       OutputMode
		layout     Layout
		wantErr    bool
	}{
		{"valid", 4, 0, 1, ModeComplex, ChannelsLast, false},
		{"one_scale", 1, 0, 1, ModeComplex, ChannelsLast, true},
		{"negative_crop", 4, -1, 1, ModeComplex, ChannelsLast, true},
		{"zero_stride", 4, 0, 0, ModeComplex, ChannelsLast, true},
		{"bad_mode", 4, 0, 1, OutputMode(99), ChannelsLast, true},
		{"bad_layout", 4, 0, 1, ModeComplex, Layout(99), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransformer[float64](tt.nScales, tt.borderCrop, tt.stride, tt.mode, tt.layout, false)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestSignalDims tests shape validation for both layouts.
func TestSignalDims(t *testing.T) {
	t.Run("channels_last_valid", func(t *testing.T) {
		sig := monoSignal(make([]float64, 16))
		batch, timeIn, channels, err := SignalDims(sig, ChannelsLast)
		require.NoError(t, err)
		assert.Equal(t, 1, batch)
		assert.Equal(t, 16, timeIn)
		assert.Equal(t, 1, channels)
	})

	t.Run("channels_first_valid", func(t *testing.T) {
		sig := [][][]float64{{make([]float64, 16), make([]float64, 16)}}
		batch, timeIn, channels, err := SignalDims(sig, ChannelsFirst)
		require.NoError(t, err)
		assert.Equal(t, 1, batch)
		assert.Equal(t, 16, timeIn)
		assert.Equal(t, 2, channels)
	})

	t.Run("empty_batch", func(t *testing.T) {
		_, _, _, err := SignalDims([][][]float64{}, ChannelsLast)
		assert.Error(t, err)
	})

	t.Run("ragged_time", func(t *testing.T) {
		sig := [][][]float64{{make([]float64, 16)}, {make([]float64, 8)}}
		_, _, _, err := SignalDims(sig, ChannelsFirst)
		assert.Error(t, err)
	})

	t.Run("ragged_channels", func(t *testing.T) {
		sig := [][][]float64{{{1, 2}, {1}}}
		_, _, _, err := SignalDims(sig, ChannelsLast)
		assert.Error(t, err)
	})
}

// TestApply_IdentityBank verifies that a centered unit impulse bank
// reproduces the input signal at every scale in complex mode, with zero
// imaginary response.
func TestApply_IdentityBank(t *testing.T) {
	e, err := NewTransformer[float64](testNScales, 0, 1, ModeComplex, ChannelsLast, false)
	require.NoError(t, err)

	samples := make([]float64, testTimeLen)
	for i := range samples {
		samples[i] = math.Sin(0.1 * float64(i))
	}
	realTaps, imagTaps := identityBank(testNScales, 7)

	result, err := e.Apply(monoSignal(samples), realTaps, imagTaps)
	require.NoError(t, err)

	assert.Equal(t, testTimeLen, result.Time)
	assert.Equal(t, testNScales, result.Scales)
	assert.Equal(t, 2, result.Channels, "complex mode doubles channels")

	for s := range testNScales {
		for ti, want := range samples {
			assert.InDelta(t, want, result.At(0, ti, s, 0), engineTolerance, "real scale=%d t=%d", s, ti)
			assert.InDelta(t, 0.0, result.At(0, ti, s, 1), engineTolerance, "imag scale=%d t=%d", s, ti)
		}
	}
}

// TestApply_OutputShapes checks shape bookkeeping across stride, crop, and
// output mode.
func TestApply_OutputShapes(t *testing.T) {
	tests := []struct {
		name         string
		stride       int
		borderCrop   int
		mode         OutputMode
		wantTime     int
		wantChannels int
	}{
		{"complex_full", 1, 0, ModeComplex, 128, 2},
		{"magnitude_full", 1, 0, ModeMagnitude, 128, 1},
		{"phase_full", 1, 0, ModePhase, 128, 1},
		{"stride_two", 2, 0, ModeComplex, 64, 2},
		{"cropped", 1, 10, ModeMagnitude, 108, 1},
		{"cropped_strided", 2, 10, ModeMagnitude, 54, 1},
	}

	samples := make([]float64, testTimeLen)
	for i := range samples {
		samples[i] = math.Cos(0.2 * float64(i))
	}
	realTaps, imagTaps := identityBank(testNScales, 9)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewTransformer[float64](testNScales, tt.borderCrop, tt.stride, tt.mode, ChannelsLast, false)
			require.NoError(t, err)

			result, err := e.Apply(monoSignal(samples), realTaps, imagTaps)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTime, result.Time)
			assert.Equal(t, testNScales, result.Scales)
			assert.Equal(t, tt.wantChannels, result.Channels)
			assert.Len(t, result.Data, result.Batch*result.Time*result.Scales*result.Channels)
		})
	}
}

// TestApply_CropConsumesAxis verifies the whole-axis crop error.
func TestApply_CropConsumesAxis(t *testing.T) {
	e, err := NewTransformer[float64](testNScales, 64, 1, ModeMagnitude, ChannelsLast, false)
	require.NoError(t, err)

	realTaps, imagTaps := identityBank(testNScales, 7)
	_, err = e.Apply(monoSignal(make([]float64, 100)), realTaps, imagTaps)
	assert.Error(t, err)
}

// TestApply_ModeConsistency verifies that magnitude and phase modes agree
// with the complex mode outputs they are derived from.
func TestApply_ModeConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	realTaps, imagTaps := randomBank(rng, testNScales, 11)

	samples := make([]float64, testTimeLen)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}
	sig := monoSignal(samples)

	newEngine := func(mode OutputMode) *Transformer[float64] {
		e, err := NewTransformer[float64](testNScales, 4, 1, mode, ChannelsLast, false)
		require.NoError(t, err)
		return e
	}

	complexOut, err := newEngine(ModeComplex).Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)
	magOut, err := newEngine(ModeMagnitude).Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)
	phaseOut, err := newEngine(ModePhase).Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)

	for s := range testNScales {
		for ti := range complexOut.Time {
			re := complexOut.At(0, ti, s, 0)
			im := complexOut.At(0, ti, s, 1)

			assert.InDelta(t, math.Hypot(re, im), magOut.At(0, ti, s, 0), engineTolerance)
			assert.InDelta(t, math.Atan2(im, re), phaseOut.At(0, ti, s, 0), engineTolerance)
		}
	}
}

// TestApply_ImaginaryNegation verifies the sign convention: the imaginary
// response equals the sliding dot product with the negated imaginary taps.
func TestApply_ImaginaryNegation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const kernelLen = 5
	realTaps, imagTaps := randomBank(rng, testNScales, kernelLen)

	samples := make([]float64, 32)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}

	e, err := NewTransformer[float64](testNScales, 0, 1, ModeComplex, ChannelsLast, false)
	require.NoError(t, err)
	result, err := e.Apply(monoSignal(samples), realTaps, imagTaps)
	require.NoError(t, err)

	// Reference: SAME-pad by hand, then correlate with the negated taps.
	_, padLeft, padTotal := samePadding(len(samples), kernelLen, 1)
	padded := make([]float64, len(samples)+padTotal)
	copy(padded[padLeft:], samples)

	for s := range testNScales {
		neg := make([]float64, kernelLen)
		for k := range kernelLen {
			neg[k] = -imagTaps[s][k]
		}
		want := naiveCorrelate(padded, neg)
		for ti := range result.Time {
			assert.InDelta(t, want[ti], result.At(0, ti, s, 1), engineTolerance, "scale=%d t=%d", s, ti)
		}
	}
}

// TestApply_LayoutEquivalence verifies that channels-first and
// channels-last runs agree after layout permutation.
func TestApply_LayoutEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	realTaps, imagTaps := randomBank(rng, testNScales, 11)

	const channels = 3
	timeLen := 64
	chanFirst := [][][]float64{make([][]float64, channels)}
	for c := range channels {
		chanFirst[0][c] = make([]float64, timeLen)
		for ti := range timeLen {
			chanFirst[0][c][ti] = rng.NormFloat64()
		}
	}
	chanLast := [][][]float64{make([][]float64, timeLen)}
	for ti := range timeLen {
		chanLast[0][ti] = make([]float64, channels)
		for c := range channels {
			chanLast[0][ti][c] = chanFirst[0][c][ti]
		}
	}

	eFirst, err := NewTransformer[float64](testNScales, 2, 2, ModeComplex, ChannelsFirst, false)
	require.NoError(t, err)
	eLast, err := NewTransformer[float64](testNScales, 2, 2, ModeComplex, ChannelsLast, false)
	require.NoError(t, err)

	outFirst, err := eFirst.Apply(chanFirst, realTaps, imagTaps)
	require.NoError(t, err)
	outLast, err := eLast.Apply(chanLast, realTaps, imagTaps)
	require.NoError(t, err)

	require.Equal(t, outFirst.Time, outLast.Time)
	for c := range outFirst.Channels {
		for ti := range outFirst.Time {
			for s := range testNScales {
				assert.Equal(t, outFirst.At(0, ti, s, c), outLast.At(0, ti, s, c),
					"c=%d t=%d s=%d", c, ti, s)
			}
		}
	}
}

// TestApply_ParallelMatchesSequential verifies that the goroutine fan-out
// produces identical output.
func TestApply_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	realTaps, imagTaps := randomBank(rng, testNScales, 11)

	const batch, channels, timeLen = 3, 2, 64
	sig := make([][][]float64, batch)
	for b := range batch {
		sig[b] = make([][]float64, timeLen)
		for ti := range timeLen {
			sig[b][ti] = make([]float64, channels)
			for c := range channels {
				sig[b][ti][c] = rng.NormFloat64()
			}
		}
	}

	seq, err := NewTransformer[float64](testNScales, 0, 1, ModeMagnitude, ChannelsLast, false)
	require.NoError(t, err)
	par, err := NewTransformer[float64](testNScales, 0, 1, ModeMagnitude, ChannelsLast, true)
	require.NoError(t, err)

	outSeq, err := seq.Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)
	outPar, err := par.Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)

	assert.Equal(t, outSeq.Data, outPar.Data)
}

// TestApply_Float32 verifies the float32 instantiation end to end.
func TestApply_Float32(t *testing.T) {
	e, err := NewTransformer[float32](testNScales, 0, 1, ModeComplex, ChannelsLast, false)
	require.NoError(t, err)

	samples := make([]float32, 64)
	for i := range samples {
		samples[i] = float32(math.Sin(0.3 * float64(i)))
	}
	sig := make([][][]float32, 1)
	sig[0] = make([][]float32, len(samples))
	for ti, v := range samples {
		sig[0][ti] = []float32{v}
	}

	realTaps, imagTaps := identityBank(testNScales, 7)
	result, err := e.Apply(sig, realTaps, imagTaps)
	require.NoError(t, err)

	for ti, want := range samples {
		assert.InDelta(t, float64(want), float64(result.At(0, ti, 0, 0)), 1e-6)
	}
}

// TestApply_BankMismatch verifies bank shape checks.
func TestApply_BankMismatch(t *testing.T) {
	e, err := NewTransformer[float64](testNScales, 0, 1, ModeComplex, ChannelsLast, false)
	require.NoError(t, err)
	sig := monoSignal(make([]float64, 32))

	t.Run("wrong_row_count", func(t *testing.T) {
		realTaps, imagTaps := identityBank(testNScales-1, 7)
		_, err := e.Apply(sig, realTaps, imagTaps)
		assert.Error(t, err)
	})

	t.Run("even_kernel", func(t *testing.T) {
		realTaps, imagTaps := identityBank(testNScales, 7)
		for s := range realTaps {
			realTaps[s] = realTaps[s][:6]
			imagTaps[s] = imagTaps[s][:6]
		}
		_, err := e.Apply(sig, realTaps, imagTaps)
		assert.Error(t, err)
	})
}

// BenchmarkApply benchmarks a typical mono transform.
func BenchmarkApply(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	realTaps, imagTaps := randomBank(rng, 16, 101)

	samples := make([]float64, 4096)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}
	sig := monoSignal(samples)

	e, err := NewTransformer[float64](16, 0, 1, ModeMagnitude, ChannelsLast, false)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		_, _ = e.Apply(sig, realTaps, imagTaps)
	}
}
