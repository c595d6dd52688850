package cwt

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-cwt/internal/engine"
)

// Common errors returned by the package.
var (
	// ErrInvalidConfig indicates invalid construction parameters, or a
	// width parameter that has been set to a non-positive value.
	ErrInvalidConfig = errors.New("invalid transform configuration")

	// ErrShapeMismatch indicates an input signal whose shape is ragged,
	// empty, or incompatible with the configured stride and border crop.
	ErrShapeMismatch = errors.New("signal shape mismatch")
)

// OutputMode selects how the complex wavelet response is emitted.
type OutputMode int

const (
	// OutputComplex emits real and imaginary responses concatenated along
	// the channel axis, doubling the channel count.
	OutputComplex OutputMode = iota

	// OutputMagnitude emits the modulus sqrt(re² + im²) per channel.
	OutputMagnitude

	// OutputPhase emits the argument atan2(im, re) per channel, in radians.
	OutputPhase
)

// String returns the mode name as accepted by ParseOutputMode.
func (m OutputMode) String() string {
	switch m {
	case OutputComplex:
		return "complex"
	case OutputMagnitude:
		return "magnitude"
	case OutputPhase:
		return "phase"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ParseOutputMode converts a mode name to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch s {
	case "complex":
		return OutputComplex, nil
	case "magnitude":
		return OutputMagnitude, nil
	case "phase":
		return OutputPhase, nil
	default:
		return 0, fmt.Errorf("%w: unknown output mode %q", ErrInvalidConfig, s)
	}
}

// DataFormat is the axis order of input signals and output scalograms.
type DataFormat int

const (
	// ChannelsLast is [batch, time, channels] input and
	// [batch, time_out, n_scales, channels_out] output.
	ChannelsLast DataFormat = iota

	// ChannelsFirst is [batch, channels, time] input and
	// [batch, channels_out, time_out, n_scales] output.
	ChannelsFirst
)

// String returns the format name as accepted by ParseDataFormat.
func (f DataFormat) String() string {
	switch f {
	case ChannelsLast:
		return "channels_last"
	case ChannelsFirst:
		return "channels_first"
	default:
		return fmt.Sprintf("DataFormat(%d)", int(f))
	}
}

// ParseDataFormat converts a format name to a DataFormat.
func ParseDataFormat(s string) (DataFormat, error) {
	switch s {
	case "channels_last":
		return ChannelsLast, nil
	case "channels_first":
		return ChannelsFirst, nil
	default:
		return 0, fmt.Errorf("%w: unknown data format %q", ErrInvalidConfig, s)
	}
}

// Config holds transform configuration.
type Config struct {
	// LowerFreq is the lowest frequency of interest in Hz. It maps to the
	// largest (last) wavelet scale.
	LowerFreq float64

	// UpperFreq is the highest frequency of interest in Hz. It maps to the
	// smallest (first) wavelet scale and must exceed LowerFreq.
	UpperFreq float64

	// NScales is the number of geometrically spaced scales covering the
	// frequency range. Must be at least 2.
	NScales int

	// SampleRate is the sampling frequency of input signals in Hz.
	SampleRate float64

	// Width is the initial wavelet width β. It seeds the width parameter
	// and fixes the kernel support; see the package documentation.
	Width float64

	// SizeFactor relaxes kernel truncation beyond the 3σ heuristic.
	// Must be >= 1. Values above 1 reserve support headroom for widths
	// that grow during training.
	SizeFactor float64

	// Stride is the temporal subsampling factor of the output. Must be
	// at least 1.
	Stride int

	// BorderCrop is the number of input samples to discard from each end
	// of the time axis, applied after striding as BorderCrop/Stride output
	// samples per side. Must be non-negative.
	BorderCrop int

	// OutputMode selects complex, magnitude, or phase output.
	OutputMode OutputMode

	// DataFormat selects channels-last or channels-first tensor layout.
	DataFormat DataFormat

	// Trainable marks the width parameter as intended for optimization.
	// It only affects what the parameter handle reports; the handle is
	// mutable either way.
	Trainable bool

	// Parallel enables concurrent per-channel processing. Each
	// (batch, channel) pair is independent, so the fan-out scales with
	// batch size times channel count. Has no effect on a single mono signal.
	Parallel bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.LowerFreq <= 0 {
		return fmt.Errorf("%w: lower frequency must be positive, got %g", ErrInvalidConfig, c.LowerFreq)
	}
	if c.LowerFreq >= c.UpperFreq {
		return fmt.Errorf("%w: lower frequency %g must be below upper frequency %g", ErrInvalidConfig, c.LowerFreq, c.UpperFreq)
	}
	if c.NScales < minScales {
		return fmt.Errorf("%w: need at least %d scales, got %d", ErrInvalidConfig, minScales, c.NScales)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidConfig, c.SampleRate)
	}
	if c.Width <= 0 {
		return fmt.Errorf("%w: wavelet width must be positive, got %g", ErrInvalidConfig, c.Width)
	}
	if c.SizeFactor < minSizeFactor {
		return fmt.Errorf("%w: size factor must be >= %g, got %g", ErrInvalidConfig, minSizeFactor, c.SizeFactor)
	}
	if c.Stride < 1 {
		return fmt.Errorf("%w: stride must be at least 1, got %d", ErrInvalidConfig, c.Stride)
	}
	if c.BorderCrop < 0 {
		return fmt.Errorf("%w: border crop must be non-negative, got %d", ErrInvalidConfig, c.BorderCrop)
	}
	switch c.OutputMode {
	case OutputComplex, OutputMagnitude, OutputPhase:
	default:
		return fmt.Errorf("%w: unknown output mode %d", ErrInvalidConfig, int(c.OutputMode))
	}
	switch c.DataFormat {
	case ChannelsLast, ChannelsFirst:
	default:
		return fmt.Errorf("%w: unknown data format %d", ErrInvalidConfig, int(c.DataFormat))
	}
	return nil
}

// DefaultConfig returns a configuration for the given frequency range with
// default width, full-rate output, and complex channels-last formatting.
func DefaultConfig(lowerFreq, upperFreq float64, nScales int, sampleRate float64) *Config {
	return &Config{
		LowerFreq:  lowerFreq,
		UpperFreq:  upperFreq,
		NScales:    nScales,
		SampleRate: sampleRate,
		Width:      DefaultWidth,
		SizeFactor: DefaultSizeFactor,
		Stride:     DefaultStride,
		OutputMode: OutputComplex,
		DataFormat: ChannelsLast,
	}
}

// engineMode maps the public mode to the engine's.
func (m OutputMode) engineMode() engine.OutputMode {
	switch m {
	case OutputMagnitude:
		return engine.ModeMagnitude
	case OutputPhase:
		return engine.ModePhase
	default:
		return engine.ModeComplex
	}
}

// engineLayout maps the public format to the engine's.
func (f DataFormat) engineLayout() engine.Layout {
	if f == ChannelsFirst {
		return engine.ChannelsFirst
	}
	return engine.ChannelsLast
}
