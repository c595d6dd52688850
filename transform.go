package cwt

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-cwt/internal/engine"
	"github.com/tphakala/go-cwt/internal/filter"
)

// BankBuilder synthesizes a complex filter bank for a set of scales at a
// given wavelet width. Implementations must be pure: identical arguments
// produce identical taps, with no state retained between calls, because the
// transform rebuilds the bank on every Apply.
//
// Both returned slices are indexed [scale][tap] with one row per scale.
// All rows must share one odd length, and the length must not depend on
// width (the support is fixed at construction time).
type BankBuilder interface {
	Build(scales []float64, width float64) (realTaps, imagTaps [][]float64, err error)
}

// morletBuilder is the default BankBuilder, synthesizing complex Morlet
// kernels with unit-gain normalization.
type morletBuilder struct {
	initialWidth float64
	fs           float64
	sizeFactor   float64
}

func (m morletBuilder) Build(scales []float64, width float64) ([][]float64, [][]float64, error) {
	bank, err := filter.BuildMorletBank(filter.ScaleSet{Scales: scales}, filter.MorletParams{
		Width:        width,
		InitialWidth: m.initialWidth,
		FS:           m.fs,
		SizeFactor:   m.sizeFactor,
	})
	if err != nil {
		return nil, nil, err
	}
	return bank.Real, bank.Imag, nil
}

// Transform computes scalograms for a fixed configuration. The scale set
// and kernel support are derived once at construction; only the wavelet
// width can change afterwards, through the handle returned by Width.
//
// A Transform is safe for concurrent Apply calls.
type Transform struct {
	cfg        Config
	scaleSet   filter.ScaleSet
	width      *Param
	builder    BankBuilder
	kernelSize int

	eng64 *engine.Transformer[float64]

	// The float32 engine is built on first use; most callers never need it.
	eng32Once sync.Once
	eng32     *engine.Transformer[float32]
	eng32Err  error
}

// New creates a Transform with the default complex Morlet bank.
func New(config *Config) (*Transform, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	return NewWithBuilder(config, morletBuilder{
		initialWidth: config.Width,
		fs:           config.SampleRate,
		sizeFactor:   config.SizeFactor,
	})
}

// NewWithBuilder creates a Transform using a custom wavelet family. The
// builder is invoked once during construction, at the configured width, to
// verify its output shape; it is then invoked again on every Apply.
func NewWithBuilder(config *Config, builder BankBuilder) (*Transform, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if builder == nil {
		return nil, fmt.Errorf("%w: bank builder is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	set, err := filter.GeometricScales(config.LowerFreq, config.UpperFreq, config.NScales)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	eng64, err := engine.NewTransformer[float64](config.NScales, config.BorderCrop, config.Stride,
		config.OutputMode.engineMode(), config.DataFormat.engineLayout(), config.Parallel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Probe build: validates the builder eagerly and pins the kernel size,
	// which must stay fixed across width updates.
	realTaps, imagTaps, err := builder.Build(set.Scales, config.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(realTaps) != config.NScales || len(imagTaps) != config.NScales {
		return nil, fmt.Errorf("%w: builder produced %d real / %d imaginary rows, want %d",
			ErrInvalidConfig, len(realTaps), len(imagTaps), config.NScales)
	}
	kernelSize := len(realTaps[0])
	if kernelSize == 0 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("%w: builder kernel length %d must be odd", ErrInvalidConfig, kernelSize)
	}

	return &Transform{
		cfg:        *config,
		scaleSet:   set,
		width:      newParam(config.Width, config.Trainable),
		builder:    builder,
		kernelSize: kernelSize,
		eng64:      eng64,
	}, nil
}

// Apply computes the scalogram of a float64 signal batch. The signal is
// [batch][time][channels] for ChannelsLast or [batch][channels][time] for
// ChannelsFirst; every batch entry must agree on the time and channel
// extents. The wavelet bank is rebuilt from the current width on each call,
// so parameter updates between calls take effect immediately.
func (t *Transform) Apply(signal [][][]float64) (*Scalogram[float64], error) {
	return apply(t, t.eng64, signal)
}

// ApplyFloat32 is like Apply but for float32 samples. The direct
// convolution path runs natively in float32; the FFT path for long kernels
// computes in float64 internally.
func (t *Transform) ApplyFloat32(signal [][][]float32) (*Scalogram[float32], error) {
	eng, err := t.float32Engine()
	if err != nil {
		return nil, err
	}
	return apply(t, eng, signal)
}

// float32Engine builds the float32 engine on first use, from the same
// parameters NewWithBuilder already validated.
func (t *Transform) float32Engine() (*engine.Transformer[float32], error) {
	t.eng32Once.Do(func() {
		t.eng32, t.eng32Err = engine.NewTransformer[float32](t.cfg.NScales, t.cfg.BorderCrop, t.cfg.Stride,
			t.cfg.OutputMode.engineMode(), t.cfg.DataFormat.engineLayout(), t.cfg.Parallel)
	})
	if t.eng32Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, t.eng32Err)
	}
	return t.eng32, nil
}

// ApplyMono computes the scalogram of a single-channel signal, wrapping it
// as a batch of one in the configured layout.
func (t *Transform) ApplyMono(samples []float64) (*Scalogram[float64], error) {
	if t.cfg.DataFormat == ChannelsFirst {
		return t.Apply([][][]float64{{samples}})
	}
	signal := make([][][]float64, 1)
	signal[0] = make([][]float64, len(samples))
	for i, v := range samples {
		signal[0][i] = []float64{v}
	}
	return t.Apply(signal)
}

// apply rebuilds the bank at the current width and runs one engine pass.
func apply[F Float](t *Transform, eng *engine.Transformer[F], signal [][][]F) (*Scalogram[F], error) {
	width := t.width.Value()
	if width <= 0 {
		return nil, fmt.Errorf("%w: wavelet width must be positive, got %g", ErrInvalidConfig, width)
	}

	realTaps, imagTaps, err := t.builder.Build(t.scaleSet.Scales, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	result, err := eng.Apply(signal, realTaps, imagTaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return fromResult(result, t.cfg.DataFormat), nil
}

// Width returns the mutable wavelet width parameter.
func (t *Transform) Width() *Param {
	return t.width
}

// Scales returns a copy of the derived wavelet scales, strictly increasing.
func (t *Transform) Scales() []float64 {
	out := make([]float64, len(t.scaleSet.Scales))
	copy(out, t.scaleSet.Scales)
	return out
}

// Frequencies returns a copy of the scale center frequencies in Hz,
// strictly decreasing from UpperFreq to LowerFreq.
func (t *Transform) Frequencies() []float64 {
	out := make([]float64, len(t.scaleSet.Frequencies))
	copy(out, t.scaleSet.Frequencies)
	return out
}

// KernelSize returns the fixed per-scale kernel length in taps (odd).
func (t *Transform) KernelSize() int {
	return t.kernelSize
}

// OutputTime returns the output time length for an input of the given
// length under the configured stride and border crop.
func (t *Transform) OutputTime(timeIn int) (int, error) {
	out, err := t.eng64.OutputTime(timeIn)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return out, nil
}
